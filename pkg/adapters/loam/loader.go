package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/quizpath/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Loader adapts the Loam library to the quizpath QuestionLoader interface.
// Each document in the repository is one question; the Markdown body is
// the question text unless the frontmatter sets text explicitly.
type Loader struct {
	Repo *loam.TypedRepository[QuestionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[QuestionMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

type orderedQuestion struct {
	order    int
	question domain.Question
}

// Load lists every document and converts it into a question.
func (l *Loader) Load(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	items := make([]orderedQuestion, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		// Collision Detection
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		item, err := buildQuestion(id, doc.Data, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.ID, err)
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].order != items[j].order {
			return items[i].order < items[j].order
		}
		return items[i].question.ID < items[j].question.ID
	})

	questions := make([]domain.Question, len(items))
	for i, item := range items {
		questions[i] = item.question
	}
	return questions, nil
}

func buildQuestion(id string, meta QuestionMetadata, content string) (orderedQuestion, error) {
	order, err := toInt(meta.Order)
	if err != nil {
		return orderedQuestion{}, fmt.Errorf("order: %w", err)
	}
	priority, err := toInt(meta.Priority)
	if err != nil {
		return orderedQuestion{}, fmt.Errorf("priority: %w", err)
	}

	text := meta.Text
	if text == "" {
		text = strings.TrimSpace(content)
	}

	defaultNext := meta.DefaultNext
	if defaultNext == "" {
		defaultNext = meta.Next
	}

	var branches []domain.Branch
	if len(meta.Branches) > 0 {
		branches = make([]domain.Branch, 0, len(meta.Branches))
		for _, lb := range meta.Branches {
			target := lb.Target
			if target == "" {
				target = lb.To
			}
			branches = append(branches, domain.Branch{
				Condition: lb.Condition,
				Target:    trimExtension(target),
			})
		}
	}

	q := domain.Question{
		ID:          id,
		Text:        text,
		Branches:    branches,
		DefaultNext: trimExtension(defaultNext),
		Relevance:   meta.Relevance,
		Priority:    priority,
	}
	if meta.Metadata != nil {
		q.Metadata = flattenMetadata(meta.Metadata)
	}

	return orderedQuestion{order: order, question: q}, nil
}

// toInt accepts whatever numeric form the serializer produced.
func toInt(v any) (int, error) {
	if v == nil {
		return 0, nil
	}
	var n int
	if err := mapstructure.WeakDecode(v, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func trimExtension(id string) string {
	if id == "" {
		return ""
	}
	switch ext := strings.ToLower(filepath.Ext(id)); ext {
	case ".md", ".json", ".yaml", ".yml":
		id = id[:len(id)-len(ext)]
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Watch for all relevant files (recursive) using doublestar pattern supported by Loam/Doublestar
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// flattenMetadata converts a nested map into a flat map[string]string
// using dot notation for keys.
func flattenMetadata(src map[string]any) map[string]string {
	res := make(map[string]string)
	var visit func(prefix string, v any)

	visit = func(prefix string, v any) {
		switch val := v.(type) {
		case map[string]any:
			for k, sub := range val {
				visit(joinKey(prefix, k), sub)
			}
		case map[any]any: // YAML often decodes to this
			for k, sub := range val {
				visit(joinKey(prefix, fmt.Sprintf("%v", k)), sub)
			}
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			res[prefix] = strings.Join(parts, ",")
		default:
			if prefix != "" {
				res[prefix] = fmt.Sprintf("%v", val)
			}
		}
	}

	for k, v := range src {
		visit(k, v)
	}
	return res
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
