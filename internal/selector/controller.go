package selector

import (
	"fmt"
	"sort"

	"awsps/internal/aws"
	"awsps/internal/fuzzy"

	"go.uber.org/zap"
)

// DefaultRecentLimit is the number of recent profiles shown at Initial.
const DefaultRecentLimit = 5

// Recents supplies recently used profile identifiers, most recent first.
type Recents interface {
	Recent(n int) []string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithRecentLimit sets how many recent profiles Initial offers.
func WithRecentLimit(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.recentLimit = n
		}
	}
}

// WithLogger sets the logger stage transitions are reported to.
func WithLogger(log *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

type account struct {
	name  string
	ids   []string
	roles int
}

// candidate is a ranked option together with what selecting it means.
type candidate struct {
	option  Option
	account string
	profile *aws.Profile
}

// Controller owns the selection state. It is not safe for concurrent use;
// Run serialises all access.
type Controller struct {
	profiles    []aws.Profile
	accounts    []account
	recent      []aws.Profile
	recentLimit int
	log         *zap.Logger

	state      State
	candidates []candidate
	total      int
	width      int
	height     int
	selected   *aws.Profile
}

// New builds a Controller in stage Initial. recents may be nil. An empty
// profile list is rejected with aws.ErrNoProfilesFound.
func New(profiles []aws.Profile, recents Recents, opts ...ControllerOption) (*Controller, error) {
	if len(profiles) == 0 {
		return nil, aws.ErrNoProfilesFound
	}

	c := &Controller{
		profiles:    append([]aws.Profile(nil), profiles...),
		recentLimit: DefaultRecentLimit,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.accounts = groupAccounts(c.profiles)
	if recents != nil {
		c.recent = c.resolveRecent(recents.Recent(c.recentLimit))
	}

	c.state = State{Stage: Initial}
	c.recompute()
	return c, nil
}

func groupAccounts(profiles []aws.Profile) []account {
	index := make(map[string]int)
	var accounts []account
	for _, p := range profiles {
		i, ok := index[p.AccountName]
		if !ok {
			i = len(accounts)
			index[p.AccountName] = i
			accounts = append(accounts, account{name: p.AccountName})
		}
		a := &accounts[i]
		a.roles++
		if !contains(a.ids, p.AccountID) {
			a.ids = append(a.ids, p.AccountID)
		}
	}
	for i := range accounts {
		sort.Strings(accounts[i].ids)
	}
	return accounts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// resolveRecent keeps the identifiers that still name a profile, in order.
func (c *Controller) resolveRecent(ids []string) []aws.Profile {
	var out []aws.Profile
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := aws.FindProfile(c.profiles, id); ok {
			out = append(out, p)
		} else {
			c.log.Debug("skipping recent profile missing from catalog", zap.String("profile", id))
		}
	}
	return out
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state
}

// Done reports whether a terminal stage has been reached.
func (c *Controller) Done() bool {
	return c.state.Stage.Terminal()
}

// Result returns the outcome once the Controller is done.
func (c *Controller) Result() (Result, bool) {
	switch c.state.Stage {
	case Confirmed:
		return Result{Outcome: OutcomeConfirmed, Profile: *c.selected}, true
	case Cancelled:
		return Result{Outcome: OutcomeCancelled}, true
	default:
		return Result{}, false
	}
}

// Handle applies one event. Events received after a terminal stage are ignored.
func (c *Controller) Handle(ev Event) {
	if c.Done() {
		return
	}

	before := c.state.Stage
	switch ev.Kind {
	case EventRunes:
		c.typeRunes(ev.Runes)
	case EventBackspace:
		c.backspace()
	case EventEscape:
		c.escape()
	case EventEnter:
		c.enter()
	case EventUp:
		c.moveCursor(-1)
	case EventDown:
		c.moveCursor(1)
	case EventResize:
		c.width, c.height = ev.Width, ev.Height
	case EventInterrupt:
		c.state.Stage = Cancelled
	}

	if after := c.state.Stage; after != before {
		c.log.Debug("stage transition",
			zap.Stringer("event", ev.Kind),
			zap.Stringer("from", before),
			zap.Stringer("to", after),
			zap.String("account", c.state.ChosenAccount),
		)
	}
}

func (c *Controller) typeRunes(r []rune) {
	if len(r) == 0 {
		return
	}
	switch c.state.Stage {
	case Initial:
		c.state.Stage = AccountSearch
		c.state.Query = string(r)
	case AccountSearch, RoleSearch:
		c.state.Query += string(r)
	}
	c.recompute()
}

func (c *Controller) backspace() {
	switch c.state.Stage {
	case Initial:
		c.state.Stage = Cancelled
		return
	case AccountSearch:
		if c.dropRune() == "" {
			c.toInitial()
			return
		}
	case RoleSearch:
		if c.dropRune() == "" {
			c.toAccountSearch()
			return
		}
	}
	c.recompute()
}

// dropRune removes the last rune of the query and returns what is left.
func (c *Controller) dropRune() string {
	q := []rune(c.state.Query)
	if len(q) > 0 {
		q = q[:len(q)-1]
	}
	c.state.Query = string(q)
	return c.state.Query
}

func (c *Controller) escape() {
	switch c.state.Stage {
	case Initial:
		c.state.Stage = Cancelled
	case AccountSearch:
		c.toInitial()
	case RoleSearch:
		c.toAccountSearch()
	}
}

func (c *Controller) toInitial() {
	c.state = State{Stage: Initial}
	c.recompute()
}

func (c *Controller) toAccountSearch() {
	c.state = State{Stage: AccountSearch}
	c.recompute()
}

func (c *Controller) enter() {
	if c.state.Cursor < 0 {
		return
	}
	cand := c.candidates[c.state.Cursor]

	if cand.profile != nil {
		p := *cand.profile
		c.selected = &p
		c.state.Stage = Confirmed
		return
	}

	c.state = State{Stage: RoleSearch, ChosenAccount: cand.account}
	c.recompute()
}

func (c *Controller) moveCursor(delta int) {
	if len(c.candidates) == 0 {
		return
	}
	cur := c.state.Cursor + delta
	if cur < 0 {
		cur = 0
	}
	if cur > len(c.candidates)-1 {
		cur = len(c.candidates) - 1
	}
	c.state.Cursor = cur
}

// recompute rebuilds the candidate list for the current stage and query and
// resets the cursor.
func (c *Controller) recompute() {
	switch c.state.Stage {
	case Initial:
		if len(c.recent) > 0 {
			c.candidates = recentCandidates(c.recent)
			c.total = len(c.recent)
		} else {
			c.candidates = c.accountCandidates("")
			c.total = len(c.accounts)
		}
	case AccountSearch:
		c.candidates = c.accountCandidates(c.state.Query)
		c.total = len(c.accounts)
	case RoleSearch:
		c.candidates, c.total = c.roleCandidates(c.state.ChosenAccount, c.state.Query)
	}

	if len(c.candidates) == 0 {
		c.state.Cursor = -1
	} else {
		c.state.Cursor = 0
	}
}

func recentCandidates(recent []aws.Profile) []candidate {
	out := make([]candidate, len(recent))
	for i := range recent {
		p := recent[i]
		out[i] = candidate{
			option:  Option{Label: p.Identifier, Detail: p.DisplayName(), Score: fuzzy.MinScore},
			account: p.AccountName,
			profile: &p,
		}
	}
	return out
}

func (c *Controller) accountCandidates(query string) []candidate {
	items := make([]fuzzy.Item[account], len(c.accounts))
	for i, a := range c.accounts {
		items[i] = fuzzy.Item[account]{Key: a.name, Payload: a}
	}

	ranked := fuzzy.Rank(query, items)
	out := make([]candidate, len(ranked))
	for i, r := range ranked {
		out[i] = candidate{
			option: Option{
				Label:   r.Key,
				Detail:  accountDetail(r.Payload),
				Matched: r.Positions,
				Score:   r.Score,
			},
			account: r.Payload.name,
		}
	}
	return out
}

func accountDetail(a account) string {
	roles := "roles"
	if a.roles == 1 {
		roles = "role"
	}
	if len(a.ids) == 1 {
		return fmt.Sprintf("%s, %d %s", a.ids[0], a.roles, roles)
	}
	return fmt.Sprintf("%d accounts, %d %s", len(a.ids), a.roles, roles)
}

func (c *Controller) roleCandidates(accountName, query string) ([]candidate, int) {
	var items []fuzzy.Item[aws.Profile]
	for _, p := range c.profiles {
		if p.AccountName == accountName {
			items = append(items, fuzzy.Item[aws.Profile]{Key: p.RoleName, Secondary: p.Identifier, Payload: p})
		}
	}

	ranked := fuzzy.Rank(query, items)
	out := make([]candidate, len(ranked))
	for i, r := range ranked {
		p := r.Payload
		out[i] = candidate{
			option: Option{
				Label:   r.Key,
				Detail:  p.Identifier,
				Matched: r.Positions,
				Score:   r.Score,
			},
			account: accountName,
			profile: &p,
		}
	}
	return out, len(items)
}

// Render returns the model of the current frame.
func (c *Controller) Render() RenderModel {
	opts := make([]Option, len(c.candidates))
	for i, cand := range c.candidates {
		opts[i] = cand.option
	}
	return RenderModel{
		Stage:   c.state.Stage,
		Title:   c.title(),
		Query:   c.state.Query,
		Account: c.state.ChosenAccount,
		Options: opts,
		Cursor:  c.state.Cursor,
		Total:   c.total,
		Width:   c.width,
		Height:  c.height,
	}
}

func (c *Controller) title() string {
	switch c.state.Stage {
	case Initial:
		if len(c.recent) > 0 {
			return "Recent profiles"
		}
		return "Select account"
	case AccountSearch:
		return "Select account"
	case RoleSearch:
		return "Select role in " + c.state.ChosenAccount
	case Confirmed:
		if c.selected != nil {
			return "Selected " + c.selected.Identifier
		}
	}
	return ""
}
