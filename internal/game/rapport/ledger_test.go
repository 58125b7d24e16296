package rapport_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/karstgames/undercroft/internal/game/rapport"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestLedger_Update_CreatesLazily(t *testing.T) {
	l := rapport.NewLedger()
	rec := l.Update("npc-1", "player", 5, "gift", t0)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.Level)
	assert.Equal(t, rapport.CategoryFriendly, rec.Category)
	assert.Equal(t, t0, rec.LastInteraction)
}

func TestLedger_Update_ZeroDeltaOnUnknownPair_NoRecord(t *testing.T) {
	l := rapport.NewLedger()
	rec := l.Update("npc-1", "player", 0, "idle", t0)
	assert.Nil(t, rec)
	assert.Equal(t, 0, l.Len())
}

func TestLedger_Level_UnknownPair_Zero(t *testing.T) {
	l := rapport.NewLedger()
	assert.Equal(t, 0, l.Level("npc-x", "actor-y"))
	assert.Equal(t, rapport.CategoryNeutral, l.Category("npc-x", "actor-y"))
}

func TestLedger_Update_ClampsHigh(t *testing.T) {
	l := rapport.NewLedger()
	l.Update("npc-1", "player", 250, "heroics", t0)
	assert.Equal(t, rapport.MaxLevel, l.Level("npc-1", "player"))
}

func TestLedger_Update_ClampsLow(t *testing.T) {
	l := rapport.NewLedger()
	l.Update("npc-1", "player", -250, "massacre", t0)
	assert.Equal(t, rapport.MinLevel, l.Level("npc-1", "player"))
}

func TestCategoryFor_ExactBoundaries(t *testing.T) {
	assert.Equal(t, rapport.CategoryDevoted, rapport.CategoryFor(80))
	assert.Equal(t, rapport.CategoryCloseFriend, rapport.CategoryFor(79))
	assert.Equal(t, rapport.CategoryCloseFriend, rapport.CategoryFor(40))
	assert.Equal(t, rapport.CategoryAlly, rapport.CategoryFor(39))
	assert.Equal(t, rapport.CategoryAlly, rapport.CategoryFor(20))
	assert.Equal(t, rapport.CategoryFriendly, rapport.CategoryFor(5))
	assert.Equal(t, rapport.CategoryNeutral, rapport.CategoryFor(4))
	assert.Equal(t, rapport.CategoryNeutral, rapport.CategoryFor(-4))
	assert.Equal(t, rapport.CategoryUnfriendly, rapport.CategoryFor(-5))
	assert.Equal(t, rapport.CategoryUnfriendly, rapport.CategoryFor(-19))
	assert.Equal(t, rapport.CategoryHostile, rapport.CategoryFor(-20))
	assert.Equal(t, rapport.CategoryHostile, rapport.CategoryFor(-39))
	assert.Equal(t, rapport.CategoryEnemy, rapport.CategoryFor(-40))
	assert.Equal(t, rapport.CategoryEnemy, rapport.CategoryFor(-79))
	assert.Equal(t, rapport.CategoryMortalEnemy, rapport.CategoryFor(-80))
}

func TestLedger_History_SmallDeltaNotRecorded(t *testing.T) {
	l := rapport.NewLedger()
	rec := l.Update("npc-1", "player", 3, "chat", t0)
	require.NotNil(t, rec)
	assert.Empty(t, rec.History)
}

func TestLedger_History_SignificantDeltaRecorded(t *testing.T) {
	l := rapport.NewLedger()
	rec := l.Update("npc-1", "player", -25, "witnessed death", t0)
	require.NotNil(t, rec)
	require.Len(t, rec.History, 1)
	assert.Equal(t, -25, rec.History[0].Delta)
	assert.Equal(t, "witnessed death", rec.History[0].Reason)
}

func TestLedger_History_BoundedOldestDropped(t *testing.T) {
	l := rapport.NewLedger()
	for i := 0; i < 25; i++ {
		l.Update("npc-1", "player", 10, "repeat", t0.Add(time.Duration(i)*time.Minute))
	}
	rec, ok := l.Record("npc-1", "player")
	require.True(t, ok)
	assert.Len(t, rec.History, 20)
	// Oldest five entries were dropped.
	assert.Equal(t, t0.Add(5*time.Minute), rec.History[0].At)
}

func TestPropertyLedger_LevelAlwaysClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := rapport.NewLedger()
		n := rapid.IntRange(1, 40).Draw(t, "updates")
		for i := 0; i < n; i++ {
			delta := rapid.IntRange(-300, 300).Draw(t, "delta")
			l.Update("npc-1", "player", delta, "fuzz", t0)
		}
		level := l.Level("npc-1", "player")
		assert.GreaterOrEqual(t, level, rapport.MinLevel)
		assert.LessOrEqual(t, level, rapport.MaxLevel)
	})
}

func TestPropertyLedger_HistoryNeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := rapport.NewLedger()
		n := rapid.IntRange(1, 60).Draw(t, "updates")
		for i := 0; i < n; i++ {
			l.Update("npc-1", "player", 15, "fuzz", t0)
		}
		rec, ok := l.Record("npc-1", "player")
		require.True(t, ok)
		assert.LessOrEqual(t, len(rec.History), 20)
	})
}
