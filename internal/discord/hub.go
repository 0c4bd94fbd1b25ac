package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/cory-johannsen/phoenix/internal/bot"
)

// Page navigation choice IDs.
const (
	pagePrev = "prev"
	pageNext = "next"
)

var pageChoices = []bot.Choice{
	{ID: pagePrev, Label: "Previous", Emoji: "◀️"},
	{ID: pageNext, Label: "Next", Emoji: "▶️"},
}

// Outcome is what happened to a button press routed through the hub.
type Outcome int

const (
	// OutcomeUnknown means the prompt expired or never existed.
	OutcomeUnknown Outcome = iota
	// OutcomeWrongUser means somebody other than the prompted user pressed it.
	OutcomeWrongUser
	// OutcomeDelivered means the press was accepted.
	OutcomeDelivered
)

type waiter struct {
	userID string
	ch     chan string
}

type pager struct {
	userID string
	pages  []bot.Embed
	index  int
}

// hub tracks open prompts and paginators by uuid.
//
// A hub is safe for concurrent use.
type hub struct {
	mu      sync.Mutex
	waiters map[string]*waiter
	pagers  map[string]*pager
}

func newHub() *hub {
	return &hub{
		waiters: make(map[string]*waiter),
		pagers:  make(map[string]*pager),
	}
}

// open registers a prompt answerable by userID.
//
// Postcondition: ch receives at most one choice; cancel must be called once
// the caller stops waiting.
func (h *hub) open(userID string) (id string, ch <-chan string, cancel func()) {
	id = uuid.NewString()
	w := &waiter{userID: userID, ch: make(chan string, 1)}
	h.mu.Lock()
	h.waiters[id] = w
	h.mu.Unlock()
	return id, w.ch, func() {
		h.mu.Lock()
		delete(h.waiters, id)
		h.mu.Unlock()
	}
}

// answer delivers choiceID to the prompt if userID owns it. The prompt closes
// on delivery.
func (h *hub) answer(promptID, userID, choiceID string) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.waiters[promptID]
	if !ok {
		return OutcomeUnknown
	}
	if w.userID != userID {
		return OutcomeWrongUser
	}
	delete(h.waiters, promptID)
	w.ch <- choiceID
	return OutcomeDelivered
}

// paginate registers pages navigable by userID.
func (h *hub) paginate(userID string, pages []bot.Embed) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.pagers[id] = &pager{userID: userID, pages: pages}
	h.mu.Unlock()
	return id
}

// turn moves a paginator one page in direction and returns the page to show.
// Navigation wraps around.
func (h *hub) turn(pagerID, userID, direction string) (*discordgo.MessageEmbed, Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pagers[pagerID]
	if !ok {
		return nil, OutcomeUnknown
	}
	if p.userID != userID {
		return nil, OutcomeWrongUser
	}
	n := len(p.pages)
	switch direction {
	case pageNext:
		p.index = (p.index + 1) % n
	case pagePrev:
		p.index = (p.index + n - 1) % n
	}
	return pageEmbed(p.pages, p.index), OutcomeDelivered
}

func (h *hub) closePager(id string) {
	h.mu.Lock()
	delete(h.pagers, id)
	h.mu.Unlock()
}

func (h *hub) owns(id string) (prompt, page bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, prompt = h.waiters[id]
	_, page = h.pagers[id]
	return prompt, page
}

// pageEmbed renders page i with its position in the footer.
func pageEmbed(pages []bot.Embed, i int) *discordgo.MessageEmbed {
	e := ToEmbed(pages[i])
	pos := fmt.Sprintf("Page %d/%d", i+1, len(pages))
	if e.Footer == nil {
		e.Footer = &discordgo.MessageEmbedFooter{Text: pos}
	} else {
		e.Footer.Text += " • " + pos
	}
	return e
}
