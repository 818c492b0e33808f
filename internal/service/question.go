package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Arquisoft/wichat-es1a-sub000/internal/domain"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/recipe"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/tasks"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/validation"
	"github.com/Arquisoft/wichat-es1a-sub000/internal/wikidata"
)

const (
	// maxGenerationAttempts bounds the refill loop. When the external
	// source keeps returning rows we have already seen, looping forever is
	// worse than serving fewer questions.
	maxGenerationAttempts = 3

	// minGenerationBatch is the smallest batch requested from the source;
	// small requests waste round trips against a rate-limited endpoint.
	minGenerationBatch = 20

	// entitiesPerQuestion is the chunk size: one answer + three distractors.
	entitiesPerQuestion = 4

	// seedBatch is generated for the default category at startup.
	seedBatch = 20

	backgroundOpTimeout = time.Minute
)

// SPARQLClient sends one built query to the external source and returns the
// raw result rows.
type SPARQLClient interface {
	Select(ctx context.Context, query string) ([]wikidata.Binding, error)
}

// QuestionService maintains the local store of pre-generated questions: it
// refills the store from Wikidata when a category runs low, serves random
// batches composed into multiple-choice questions, and schedules served
// documents for deletion without blocking the request that consumed them.
type QuestionService struct {
	repo    domain.QuestionRepository
	sparql  SPARQLClient
	recipes recipe.Registry
	pending *tasks.Store
	log     *slog.Logger

	// mu guards seen and serializes the count-then-generate sequence, so
	// concurrent requests for an under-populated category cannot trigger
	// duplicate generation storms.
	mu   sync.Mutex
	seen map[domain.Category]map[int64]struct{}
}

// NewQuestionService creates the service and registers its startup work —
// wiping questions left over from a previous run and pre-seeding the default
// category — as a deferred task, so construction never blocks on the network.
func NewQuestionService(repo domain.QuestionRepository, sparql SPARQLClient, recipes recipe.Registry, logger *slog.Logger) *QuestionService {
	s := &QuestionService{
		repo:    repo,
		sparql:  sparql,
		recipes: recipes,
		pending: tasks.NewStore(),
		log:     logger,
		seen:    make(map[domain.Category]map[int64]struct{}),
	}

	s.pending.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
		defer cancel()

		if err := s.repo.Wipe(ctx); err != nil {
			s.log.Error("failed to wipe stale questions", slog.String("error", err.Error()))
			return
		}

		rec, err := s.recipes.Resolve(domain.DefaultCategory)
		if err != nil {
			s.log.Error("no recipe for default category", slog.String("error", err.Error()))
			return
		}

		if _, err := s.GenerateQuestions(ctx, seedBatch, rec); err != nil {
			s.log.Warn("startup seeding failed",
				slog.String("category", rec.Category().String()),
				slog.String("error", err.Error()))
		}
	})

	return s
}

// Close drains pending background work. The service must not be used after
// Close returns.
func (s *QuestionService) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Sync()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Count returns the number of stored, not-yet-served questions for a
// category, after making earlier deferred writes visible.
func (s *QuestionService) Count(ctx context.Context, category domain.Category) (int, error) {
	s.pending.Sync()
	return s.repo.Count(ctx, category)
}

// GenerateQuestions fetches up to n random rows for the recipe's category
// and persists every valid, not-yet-seen one as a question document. This is
// the only place the service touches the external source. Source and store
// errors propagate to the caller unchanged; retrying is RandomEntities'
// concern.
func (s *QuestionService) GenerateQuestions(ctx context.Context, n int, rec recipe.Recipe) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateLocked(ctx, n, rec)
}

func (s *QuestionService) generateLocked(ctx context.Context, n int, rec recipe.Recipe) ([]domain.Question, error) {
	builder := wikidata.NewQueryBuilder()
	rec.BuildQuery(builder)
	builder.Random().Limit(n)

	rows, err := s.sparql.Select(ctx, builder.Build())
	if err != nil {
		return nil, err
	}

	category := rec.Category()
	seen := s.seen[category]
	if seen == nil {
		seen = make(map[int64]struct{})
		s.seen[category] = seen
	}

	var inserted []domain.Question
	for _, row := range rows {
		if !rec.Valid(row) {
			continue
		}

		id := row.ExternalID()
		if id != 0 {
			if _, dup := seen[id]; dup {
				s.log.Debug("skipping already-generated item",
					slog.String("category", category.String()),
					slog.Int64("external_id", id))
				continue
			}
			seen[id] = struct{}{}
		}

		question := domain.Question{
			Category: category,
			ImageURL: rec.ImageURL(ctx, row),
			WdURI:    row.Get("item"),
			Attrs:    rec.Attributes(row),
		}
		if err := s.repo.Insert(ctx, &question); err != nil {
			return nil, err
		}
		inserted = append(inserted, question)
	}

	return inserted, nil
}

// RandomEntities returns n entities for the recipe's category, refilling the
// store from the external source while it holds too few. If the refill loop
// hits its ceiling without reaching the threshold — an exhausted or
// duplicate-saturated source — the category's seen-set is discarded so later
// refills can make progress, and whatever is available gets served.
func (s *QuestionService) RandomEntities(ctx context.Context, n int, rec recipe.Recipe) ([]*domain.Entity, error) {
	category := rec.Category()

	s.mu.Lock()
	for attempt := 0; ; attempt++ {
		count, err := s.repo.Count(ctx, category)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		if count > n {
			break
		}

		if attempt >= maxGenerationAttempts {
			s.log.Warn("giving up refilling category, clearing seen-set",
				slog.String("category", category.String()),
				slog.Int("available", count),
				slog.Int("requested", n))
			delete(s.seen, category)
			break
		}

		batch := 2 * n
		if batch < minGenerationBatch {
			batch = minGenerationBatch
		}
		if _, err := s.generateLocked(ctx, batch, rec); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	s.mu.Unlock()

	docs, err := s.repo.SampleAndReserve(ctx, category, n)
	if err != nil {
		return nil, err
	}

	// Served documents are gone for good; deleting them must not delay this
	// response. A failed deletion only leaves a reserved row behind, which
	// can never be sampled again.
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	s.pending.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
		defer cancel()
		for _, id := range ids {
			if err := s.repo.Delete(ctx, id); err != nil {
				s.log.Debug("deferred question deletion failed",
					slog.String("id", id),
					slog.String("error", err.Error()))
			}
		}
	})

	entities := make([]*domain.Entity, len(docs))
	for i, d := range docs {
		e := domain.NewEntity(d.ImageURL, wikidata.ParseEntityID(d.WdURI))
		for _, attr := range d.Attrs {
			e.AddAttr(attr.Name, attr.Value)
		}
		entities[i] = e
	}

	return entities, nil
}

// RandomQuestions composes up to n multiple-choice questions for a category.
// Earlier deferred work is synced first so its effects are visible to this
// read. Four entities back each question: the first supplies the answer and
// image, the other three the distractors. When the source cannot sustain 4n
// entities the result is simply shorter than requested.
func (s *QuestionService) RandomQuestions(ctx context.Context, n int, category domain.Category) ([]domain.ComposedQuestion, error) {
	if n < 1 {
		n = 1
	}

	s.pending.Sync()

	rec, err := s.recipes.Resolve(category)
	if err != nil {
		return nil, err
	}

	entities, err := s.RandomEntities(ctx, entitiesPerQuestion*n, rec)
	if err != nil {
		return nil, err
	}

	questions := make([]domain.ComposedQuestion, 0, n)
	for i := 0; i+entitiesPerQuestion <= len(entities); i += entitiesPerQuestion {
		chunk := entities[i : i+entitiesPerQuestion]
		response := rec.Answer(chunk[0])

		distractors := make([]string, 0, entitiesPerQuestion-1)
		collision := false
		for _, e := range chunk[1:] {
			d := rec.Answer(e)
			if validation.SameAnswer(d, response) {
				collision = true
				break
			}
			distractors = append(distractors, d)
		}
		if collision {
			// A distractor equal to the answer would make the question
			// unanswerable; drop the chunk instead of emitting it.
			s.log.Debug("dropping chunk with colliding option",
				slog.String("category", category.String()),
				slog.String("response", response))
			continue
		}

		questions = append(questions, domain.ComposedQuestion{
			ImageURL:    chunk[0].ImageURL,
			Response:    response,
			Distractors: distractors,
			Attrs:       chunk[0].Attrs(),
		})
	}

	return questions, nil
}
