package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MrKrzychu46/Blog-Backend/internal/apperr"
	"github.com/MrKrzychu46/Blog-Backend/internal/posts"
)

var ErrInvalidValue = fmt.Errorf("%w: rating (1-5) is required", apperr.ErrInvalidInput)

// PostLookup is the part of the content store the aggregator needs.
type PostLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Aggregator struct {
	store *Store
	posts PostLookup
}

func NewAggregator(store *Store, posts PostLookup) *Aggregator {
	return &Aggregator{store: store, posts: posts}
}

func (a *Aggregator) GetSummary(ctx context.Context, postID, callerID string) (Summary, error) {
	if err := a.requirePost(ctx, postID); err != nil {
		return Summary{}, err
	}
	mine, err := a.store.ValueFor(ctx, callerID, postID)
	if err != nil {
		return Summary{}, err
	}
	return a.summary(ctx, postID, mine)
}

// SetRating validates raw before touching the store, clamps it into [1,5]
// and upserts the caller's rating.
func (a *Aggregator) SetRating(ctx context.Context, postID, callerID string, raw interface{}) (Summary, error) {
	value, err := ParseValue(raw)
	if err != nil {
		return Summary{}, err
	}
	if err := a.requirePost(ctx, postID); err != nil {
		return Summary{}, err
	}
	if err := a.store.Upsert(ctx, callerID, postID, value); err != nil {
		return Summary{}, err
	}
	return a.summary(ctx, postID, value)
}

// Summaries computes the aggregates of many posts in one grouped pass. Posts
// nobody rated map to zero Stats.
func (a *Aggregator) Summaries(ctx context.Context, postIDs []string) (map[string]Stats, error) {
	return a.store.Stats(ctx, postIDs)
}

// Enrich attaches aggregates to list, keeping its order.
func (a *Aggregator) Enrich(ctx context.Context, list []posts.Post) ([]RatedPost, error) {
	stats, err := a.Summaries(ctx, posts.IDs(list))
	if err != nil {
		return nil, err
	}
	out := make([]RatedPost, len(list))
	for i, p := range list {
		out[i] = RatedPost{Post: p, Stats: stats[p.ID]}
	}
	return out, nil
}

func (a *Aggregator) summary(ctx context.Context, postID string, mine int) (Summary, error) {
	stats, err := a.store.Stats(ctx, []string{postID})
	if err != nil {
		return Summary{}, err
	}
	return Summary{Stats: stats[postID], MyRating: mine}, nil
}

func (a *Aggregator) requirePost(ctx context.Context, postID string) error {
	if postID == "" {
		return fmt.Errorf("%w: postId is required", apperr.ErrInvalidInput)
	}
	ok, err := a.posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return posts.ErrPostNotFound
	}
	return nil
}

// ParseValue accepts a JSON number or numeric string and saturates it into
// [MinValue, MaxValue], rounding to the nearest integer.
func ParseValue(raw interface{}) (int, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, ErrInvalidValue
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, ErrInvalidValue
		}
		f = n
	default:
		return 0, ErrInvalidValue
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidValue
	}
	return Clamp(f), nil
}

func Clamp(f float64) int {
	f = math.Max(MinValue, math.Min(MaxValue, f))
	return int(math.Round(f))
}
