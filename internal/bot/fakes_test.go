package bot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/phoenix/internal/bot"
	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/character"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
)

var errNotFound = errors.New("not found")

type memCharacters struct {
	mu      sync.Mutex
	records map[string]*character.Record
	saves   int
	getErr  error
}

func newMemCharacters() *memCharacters {
	return &memCharacters{records: make(map[string]*character.Record)}
}

func (m *memCharacters) Create(_ context.Context, r *character.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.UserID]; ok {
		return errors.New("exists")
	}
	m.records[r.UserID] = r.Clone()
	return nil
}

func (m *memCharacters) Get(_ context.Context, userID string) (*character.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.records[userID]
	if !ok {
		return nil, errNotFound
	}
	return r.Clone(), nil
}

func (m *memCharacters) Exists(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[userID]
	return ok, nil
}

func (m *memCharacters) Save(_ context.Context, r *character.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.records[r.UserID] = r.Clone()
	return nil
}

func (m *memCharacters) get(userID string) *character.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[userID]
}

type cooldownKey struct {
	user string
	kind bot.CooldownKind
}

type memCooldowns struct {
	mu      sync.Mutex
	expires map[cooldownKey]time.Time
}

func newMemCooldowns() *memCooldowns {
	return &memCooldowns{expires: make(map[cooldownKey]time.Time)}
}

func (m *memCooldowns) Get(_ context.Context, userID string, kind bot.CooldownKind) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.expires[cooldownKey{userID, kind}]
	return t, ok, nil
}

func (m *memCooldowns) Set(_ context.Context, userID string, kind bot.CooldownKind, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[cooldownKey{userID, kind}] = at
	return nil
}

func (m *memCooldowns) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires = make(map[cooldownKey]time.Time)
	return nil
}

// prompt records one Choose call.
type prompt struct {
	who     bot.User
	msg     bot.Message
	choices []bot.Choice
}

// fakeInteraction answers prompts from a script and records every message.
// When the script runs out, Choose reports a timeout.
type fakeInteraction struct {
	author  bot.User
	options map[string]bot.User
	answers []string

	replies []bot.Message
	edits   []bot.Message
	sent    []bot.Message
	prompts []prompt
	pages   [][]bot.Embed
}

func newInteraction(author bot.User, answers ...string) *fakeInteraction {
	return &fakeInteraction{author: author, options: map[string]bot.User{}, answers: answers}
}

func (f *fakeInteraction) Author() bot.User { return f.author }

func (f *fakeInteraction) UserOption(name string) (bot.User, bool) {
	u, ok := f.options[name]
	return u, ok
}

func (f *fakeInteraction) Reply(_ context.Context, m bot.Message) error {
	f.replies = append(f.replies, m)
	return nil
}

func (f *fakeInteraction) EditReply(_ context.Context, m bot.Message) error {
	f.edits = append(f.edits, m)
	return nil
}

func (f *fakeInteraction) Send(_ context.Context, m bot.Message) error {
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeInteraction) Choose(ctx context.Context, who bot.User, m bot.Message, choices []bot.Choice) (string, error) {
	f.prompts = append(f.prompts, prompt{who: who, msg: m, choices: choices})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(f.answers) == 0 {
		return "", bot.ErrPromptTimeout
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a, nil
}

func (f *fakeInteraction) Paginate(_ context.Context, _ bot.User, pages []bot.Embed) error {
	f.pages = append(f.pages, pages)
	return nil
}

func (f *fakeInteraction) allContent() []string {
	var out []string
	for _, group := range [][]bot.Message{f.replies, f.edits, f.sent} {
		for _, m := range group {
			out = append(out, m.Content)
		}
	}
	return out
}

type harness struct {
	bot        *bot.Bot
	characters *memCharacters
	cooldowns  *memCooldowns
	logs       *observer.ObservedLogs
	now        time.Time
}

var (
	alice = bot.User{ID: "100", Name: "Alice", AvatarURL: "https://cdn.example/alice.png"}
	bob   = bot.User{ID: "200", Name: "Bob", AvatarURL: "https://cdn.example/bob.png"}
)

func newHarness(t *testing.T, seed uint64) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	src := dice.NewSeededSource(seed)
	h := &harness{
		characters: newMemCharacters(),
		cooldowns:  newMemCooldowns(),
		logs:       logs,
		now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	cfg := bot.DefaultConfig()
	cfg.OwnerIDs = []string{"999"}
	h.bot = bot.New(
		cfg,
		h.characters,
		h.cooldowns,
		anomaly.NewGenerator(anomaly.DefaultCatalog(), src),
		battle.NewController(src, battle.ControllerConfig{MaxTurns: 1000}, logger),
		battle.NewAnomalyAI(nil, logger),
		src,
		logger,
	)
	h.bot.SetClock(func() time.Time { return h.now })
	return h
}

// register stores a fresh character for u and lets mutate adjust it.
func (h *harness) register(t *testing.T, u bot.User, class character.Class, mutate func(*character.Record)) {
	t.Helper()
	rec, err := character.NewRecord(u.ID, class, dice.NewSeededSource(1))
	if err != nil {
		t.Fatal(err)
	}
	if mutate != nil {
		mutate(rec)
	}
	h.characters.records[u.ID] = rec
}
