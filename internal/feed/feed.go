// Package feed simulates the token market that drives the cluster: tokens
// get listed and delisted over time, prices random-walk every tick, and each
// token's visual size is recomputed from its market stats on a throttled
// schedule (seconds, not frames) and pushed into the engine as a resize.
package feed

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Rotwang9000/memecube-sub001/internal/cube"
)

// Token is one tracked market entry and its tag in the cluster.
type Token struct {
	ID     uuid.UUID
	Symbol string
	Price  float64
	Volume float64
	Tag    cube.TagID

	listed float64 // Feed time at listing
}

// Feed keeps the token population at a target level and feeds market-driven
// size changes into a cluster. All methods must be called from the goroutine
// that drives the cluster.
type Feed struct {
	cluster *cube.Cluster
	tokens  []*Token
	byTag   map[cube.TagID]*Token

	target       int
	refreshEvery float64 // Seconds between importance recomputations
	churnEvery   float64 // Mean seconds between listing changes
	churnChance  float64 // Probability of a delist+list at each churn check

	rng *rand.Rand
	log *log.Logger

	now          float64
	sinceRefresh float64
	sinceChurn   float64
}

// Option configures a Feed.
type Option func(*Feed)

// WithTarget sets the token population target.
func WithTarget(n int) Option {
	return func(f *Feed) { f.target = n }
}

// WithRand sets the random source used for prices, symbols and churn.
func WithRand(r *rand.Rand) Option {
	return func(f *Feed) { f.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Feed) { f.log = l }
}

// WithRefreshInterval sets how often sizes are recomputed, in seconds.
func WithRefreshInterval(seconds float64) Option {
	return func(f *Feed) { f.refreshEvery = seconds }
}

// WithChurn sets mean seconds between listing checks and the per-check
// probability of replacing a token.
func WithChurn(everySeconds, chance float64) Option {
	return func(f *Feed) {
		f.churnEvery = everySeconds
		f.churnChance = chance
	}
}

// New creates a feed attached to a cluster.
func New(cluster *cube.Cluster, opts ...Option) *Feed {
	f := &Feed{
		cluster:      cluster,
		byTag:        make(map[cube.TagID]*Token),
		target:       24,
		refreshEvery: 3.0,
		churnEvery:   8.0,
		churnChance:  0.5,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if f.log == nil {
		f.log = log.New(io.Discard)
	}
	return f
}

// Update advances the market by dt seconds: tops the population up to the
// target, occasionally churns a listing, walks prices, and pushes new sizes
// into the cluster when the refresh interval elapses.
func (f *Feed) Update(dt float64) {
	f.now += dt
	f.pruneGhosts()

	for len(f.tokens) < f.target {
		f.List()
	}

	f.sinceChurn += dt
	if f.sinceChurn >= f.churnEvery {
		f.sinceChurn = 0
		if f.rng.Float64() < f.churnChance && len(f.tokens) > 0 {
			f.Delist(f.tokens[f.rng.Intn(len(f.tokens))])
			f.List()
		}
	}

	f.walkPrices(dt)

	f.sinceRefresh += dt
	if f.sinceRefresh >= f.refreshEvery {
		f.sinceRefresh = 0
		f.refreshSizes()
	}
}

// List registers a new token and adds its tag to the cluster.
func (f *Feed) List() *Token {
	t := &Token{
		ID:     uuid.New(),
		Symbol: f.makeSymbol(),
		Price:  math.Exp(f.rng.NormFloat64()), // Log-normal starting price
		Volume: 1000 * math.Exp(f.rng.NormFloat64()*1.5),
		listed: f.now,
	}
	t.Tag = f.cluster.AddTag(sizeFor(t), importanceFor(t))
	f.tokens = append(f.tokens, t)
	f.byTag[t.Tag] = t
	f.log.Info("token listed", "symbol", t.Symbol, "tag", t.Tag, "price", t.Price)
	return t
}

// Delist removes a token; its tag flies out of the cluster. The token stays
// resolvable via ByTag until the fly-out finishes, so renderers can keep
// labelling the fading tag.
func (f *Feed) Delist(t *Token) {
	kept := f.tokens[:0]
	for _, other := range f.tokens {
		if other != t {
			kept = append(kept, other)
		}
	}
	f.tokens = kept
	f.cluster.RemoveTag(t.Tag, true)
	f.log.Info("token delisted", "symbol", t.Symbol, "tag", t.Tag)
}

// pruneGhosts forgets tokens whose tags have finished flying out.
func (f *Feed) pruneGhosts() {
	for id := range f.byTag {
		if _, ok := f.cluster.Phase(id); !ok {
			delete(f.byTag, id)
		}
	}
}

// DelistNewest removes the most recently listed token, if any.
func (f *Feed) DelistNewest() {
	if len(f.tokens) == 0 {
		return
	}
	newest := f.tokens[0]
	for _, t := range f.tokens[1:] {
		if t.listed > newest.listed {
			newest = t
		}
	}
	f.Delist(newest)
}

// Len returns the number of live tokens.
func (f *Feed) Len() int {
	return len(f.tokens)
}

// ByTag returns the token behind a tag id, if any.
func (f *Feed) ByTag(id cube.TagID) (*Token, bool) {
	t, ok := f.byTag[id]
	return t, ok
}

// walkPrices applies a geometric random walk to every token.
func (f *Feed) walkPrices(dt float64) {
	scale := math.Sqrt(dt)
	for _, t := range f.tokens {
		t.Price *= math.Exp(f.rng.NormFloat64() * 0.4 * scale)
		t.Volume *= math.Exp(f.rng.NormFloat64() * 0.8 * scale)
		if t.Volume < 1 {
			t.Volume = 1
		}
	}
}

// refreshSizes recomputes every token's visual size and pushes changed ones
// into the cluster. Tiny changes are skipped so settled tags are not jostled
// for nothing.
func (f *Feed) refreshSizes() {
	for _, t := range f.tokens {
		want := sizeFor(t)
		have, ok := f.cluster.Size(t.Tag)
		if !ok {
			continue
		}
		if math.Abs(want-have) > 0.05 {
			f.cluster.ResizeTag(t.Tag, want)
		}
	}
}

// sizeFor maps market stats onto a tag size in roughly [0.5, 3].
func sizeFor(t *Token) float64 {
	cap := t.Price * t.Volume
	s := 0.5 + math.Log10(1+cap)/3
	return math.Min(s, 3)
}

// importanceFor weights a token's mass by its traded volume.
func importanceFor(t *Token) float64 {
	return 0.5 + math.Log10(1+t.Volume)/4
}

var symbolRunes = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// makeSymbol generates a 3-5 letter ticker, prefixed with $.
func (f *Feed) makeSymbol() string {
	n := 3 + f.rng.Intn(3)
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = symbolRunes[f.rng.Intn(len(symbolRunes))]
	}
	return fmt.Sprintf("$%s", string(runes))
}
