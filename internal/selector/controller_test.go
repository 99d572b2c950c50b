package selector

import (
	"os"
	"path/filepath"
	"testing"

	"awsps/internal/aws"
	"awsps/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func catalog() []aws.Profile {
	return []aws.Profile{
		{Identifier: "dev-ro", AccountName: "Dev", AccountID: "111111111111", RoleName: "ReadOnly"},
		{Identifier: "dev-admin", AccountName: "Dev", AccountID: "111111111111", RoleName: "Admin"},
		{Identifier: "prod-ro", AccountName: "Prod", AccountID: "222222222222", RoleName: "ReadOnly"},
	}
}

type fakeRecents []string

func (f fakeRecents) Recent(n int) []string {
	if n > len(f) {
		n = len(f)
	}
	return f[:n]
}

func labels(m RenderModel) []string {
	out := make([]string, len(m.Options))
	for i, o := range m.Options {
		out[i] = o.Label
	}
	return out
}

func details(m RenderModel) []string {
	out := make([]string, len(m.Options))
	for i, o := range m.Options {
		out[i] = o.Detail
	}
	return out
}

func newController(t *testing.T, recents Recents, opts ...ControllerOption) *Controller {
	t.Helper()
	c, err := New(catalog(), recents, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsEmptyCatalog(t *testing.T) {
	c, err := New(nil, nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, aws.ErrNoProfilesFound)
}

func TestAccountThenRoleScenario(t *testing.T) {
	c := newController(t, nil)

	m := c.Render()
	assert.Equal(t, Initial, m.Stage)
	assert.Equal(t, []string{"Dev", "Prod"}, labels(m))
	assert.Equal(t, 0, m.Cursor)

	c.Handle(Type("d"))
	m = c.Render()
	assert.Equal(t, AccountSearch, m.Stage)
	assert.Equal(t, "d", m.Query)
	require.NotEmpty(t, m.Options)
	assert.Equal(t, "Dev", m.Options[0].Label)
	assert.Greater(t, m.Options[0].Score, 0)
	for _, o := range m.Options[1:] {
		assert.Less(t, o.Score, m.Options[0].Score)
	}

	c.Handle(Key(EventEnter))
	m = c.Render()
	assert.Equal(t, RoleSearch, m.Stage)
	assert.Equal(t, "Dev", m.Account)
	assert.Empty(t, m.Query)
	assert.ElementsMatch(t, []string{"ReadOnly", "Admin"}, labels(m))
	assert.ElementsMatch(t, []string{"dev-ro", "dev-admin"}, details(m))
	assert.Equal(t, 2, m.Total)

	c.Handle(Type("ad"))
	m = c.Render()
	assert.Equal(t, []string{"Admin", "ReadOnly"}, labels(m))
	assert.Greater(t, m.Options[0].Score, m.Options[1].Score)
	assert.Equal(t, []int{0, 1}, m.Options[0].Matched)

	c.Handle(Key(EventEnter))
	res, done := c.Result()
	require.True(t, done)
	assert.Equal(t, OutcomeConfirmed, res.Outcome)
	assert.Equal(t, "dev-admin", res.Profile.Identifier)
}

func TestStageInvariants(t *testing.T) {
	script := []Event{
		Type("p"), Key(EventDown), Key(EventBackspace), Type("de"), Key(EventEnter),
		Type("r"), Key(EventUp), Key(EventEscape), Type("x"), Key(EventBackspace),
		Type("prod"), Key(EventEnter), Key(EventBackspace), Key(EventEscape),
		Type("q"), Key(EventEnter), Key(EventBackspace), Key(EventDown), Key(EventDown),
	}

	c := newController(t, nil)
	accounts := map[string]bool{"Dev": true, "Prod": true}

	for i, ev := range script {
		c.Handle(ev)
		s := c.State()
		m := c.Render()

		switch s.Stage {
		case Initial:
			assert.Empty(t, s.Query, "step %d", i)
			assert.Empty(t, s.ChosenAccount, "step %d", i)
		case AccountSearch:
			assert.Empty(t, s.ChosenAccount, "step %d", i)
		case RoleSearch:
			assert.True(t, accounts[s.ChosenAccount], "step %d: account %q", i, s.ChosenAccount)
		}

		if len(m.Options) == 0 {
			assert.Equal(t, -1, s.Cursor, "step %d", i)
		} else {
			assert.GreaterOrEqual(t, s.Cursor, 0, "step %d", i)
			assert.Less(t, s.Cursor, len(m.Options), "step %d", i)
		}
	}
}

func TestBackspaceSymmetry(t *testing.T) {
	c := newController(t, nil)

	c.Handle(Type("dev"))
	c.Handle(Key(EventBackspace))
	assert.Equal(t, State{Stage: AccountSearch, Query: "de", Cursor: 0}, c.State())

	c.Handle(Key(EventEnter))
	require.Equal(t, RoleSearch, c.State().Stage)
	c.Handle(Type("ro"))
	c.Handle(Key(EventBackspace))
	assert.Equal(t, "r", c.State().Query)
	assert.Equal(t, "Dev", c.State().ChosenAccount)

	// Emptying the role query returns to account search with nothing chosen.
	c.Handle(Key(EventBackspace))
	assert.Equal(t, State{Stage: AccountSearch, Cursor: 0}, c.State())
	assert.Equal(t, []string{"Dev", "Prod"}, labels(c.Render()))

	// Backspace on an already empty account query returns to Initial.
	c.Handle(Key(EventBackspace))
	assert.Equal(t, State{Stage: Initial, Cursor: 0}, c.State())
}

func TestEscapeUnwindsOneStage(t *testing.T) {
	c := newController(t, nil)

	c.Handle(Type("pr"))
	c.Handle(Key(EventEnter))
	require.Equal(t, "Prod", c.State().ChosenAccount)

	c.Handle(Type("read"))
	c.Handle(Key(EventEscape))
	assert.Equal(t, State{Stage: AccountSearch, Cursor: 0}, c.State())

	c.Handle(Type("pr"))
	c.Handle(Key(EventEscape))
	assert.Equal(t, State{Stage: Initial, Cursor: 0}, c.State())

	c.Handle(Key(EventEscape))
	assert.Equal(t, Cancelled, c.State().Stage)
}

func TestEscapeAtInitialLeavesHistoryUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	ledger := history.Open(path, history.DefaultCap)

	c := newController(t, ledger)
	c.Handle(Key(EventEscape))

	res, done := c.Result()
	require.True(t, done)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Empty(t, ledger.Entries())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestInterruptCancelsFromAnyStage(t *testing.T) {
	for _, prefix := range [][]Event{
		nil,
		{Type("d")},
		{Type("d"), Key(EventEnter)},
	} {
		c := newController(t, nil)
		for _, ev := range prefix {
			c.Handle(ev)
		}
		c.Handle(Key(EventInterrupt))
		assert.Equal(t, Cancelled, c.State().Stage)
	}
}

func TestCursorClamps(t *testing.T) {
	c := newController(t, nil)

	c.Handle(Key(EventUp))
	assert.Equal(t, 0, c.State().Cursor)

	for i := 0; i < 5; i++ {
		c.Handle(Key(EventDown))
	}
	assert.Equal(t, 1, c.State().Cursor)
	assert.Equal(t, Initial, c.State().Stage)

	c.Handle(Key(EventEnter))
	assert.Equal(t, "Prod", c.State().ChosenAccount)
	assert.Equal(t, 0, c.State().Cursor)
}

func TestEnterWithoutCandidatesIsNoop(t *testing.T) {
	c := newController(t, nil)

	c.Handle(Type("zzz"))
	m := c.Render()
	assert.Empty(t, m.Options)
	assert.Equal(t, -1, m.Cursor)
	_, ok := m.Selected()
	assert.False(t, ok)

	c.Handle(Key(EventEnter))
	c.Handle(Key(EventDown))
	assert.Equal(t, State{Stage: AccountSearch, Query: "zzz", Cursor: -1}, c.State())
}

func TestInitialOffersRecentProfiles(t *testing.T) {
	recents := fakeRecents{"prod-ro", "deleted-profile", "dev-admin", "prod-ro"}

	c := newController(t, recents)
	m := c.Render()
	assert.Equal(t, "Recent profiles", m.Title)
	assert.Equal(t, []string{"prod-ro", "dev-admin"}, labels(m))
	assert.Equal(t, "Prod - ReadOnly", m.Options[0].Detail)

	c.Handle(Key(EventDown))
	c.Handle(Key(EventEnter))
	res, done := c.Result()
	require.True(t, done)
	assert.Equal(t, "dev-admin", res.Profile.Identifier)

	c = newController(t, recents, WithRecentLimit(1))
	assert.Equal(t, []string{"prod-ro"}, labels(c.Render()))

	// Typing from the recent list starts an account search.
	c.Handle(Type("de"))
	assert.Equal(t, AccountSearch, c.State().Stage)
	assert.Equal(t, []string{"Dev"}, labels(c.Render()))
}

func TestTerminalStagesIgnoreEvents(t *testing.T) {
	c := newController(t, nil)
	c.Handle(Key(EventEscape))
	require.Equal(t, Cancelled, c.State().Stage)

	c.Handle(Type("dev"))
	c.Handle(Key(EventEnter))
	c.Handle(Event{Kind: EventResize, Width: 10, Height: 10})
	assert.Equal(t, Cancelled, c.State().Stage)
	assert.Zero(t, c.Render().Width)
}

func TestResizeOnlyRecordsSize(t *testing.T) {
	c := newController(t, nil)
	c.Handle(Type("d"))
	before := c.State()

	c.Handle(Event{Kind: EventResize, Width: 120, Height: 40})
	assert.Equal(t, before, c.State())
	m := c.Render()
	assert.Equal(t, 120, m.Width)
	assert.Equal(t, 40, m.Height)
}

func TestAccountDetail(t *testing.T) {
	c := newController(t, nil)
	assert.Equal(t, []string{"111111111111, 2 roles", "222222222222, 1 role"}, details(c.Render()))
}

func TestTransitionsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newController(t, fakeRecents{"gone"}, WithLogger(zap.New(core)))

	c.Handle(Type("d"))
	c.Handle(Key(EventDown))

	assert.Equal(t, 1, logs.FilterMessage("skipping recent profile missing from catalog").Len())
	transitions := logs.FilterMessage("stage transition").All()
	require.Len(t, transitions, 1)
	fields := transitions[0].ContextMap()
	assert.Equal(t, "initial", fields["from"])
	assert.Equal(t, "account-search", fields["to"])
}
