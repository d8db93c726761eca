package intake

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

// mapCatalog is a Catalog backed by an in-memory set of model keys.
type mapCatalog map[string]bool

func (c mapCatalog) HasModel(_ context.Context, key string) (bool, error) {
	return c[key], nil
}

func (c mapCatalog) ModelKeys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func testMachine() *Machine {
	return NewMachine(mapCatalog{"14pro": true, "14promax": true, "13promax": true})
}

func draftAt(step int) *domain.Job {
	return &domain.Job{
		ID:         7,
		Status:     domain.StatusDraft,
		IntakeStep: step,
		Qty:        1,
	}
}

func TestStart(t *testing.T) {
	m := testMachine()

	t.Run("with photo", func(t *testing.T) {
		job := &domain.Job{ID: 3, PhotoURL: sql.NullString{String: "https://media.example/abc", Valid: true}}
		reply := m.Start(job)
		assert.Equal(t, domain.StatusDraft, job.Status)
		assert.Equal(t, domain.StepModel, job.IntakeStep)
		assert.Contains(t, reply, "draft job #3")
		assert.Contains(t, reply, PromptModel)
	})

	t.Run("without photo", func(t *testing.T) {
		job := &domain.Job{ID: 4}
		reply := m.Start(job)
		assert.Equal(t, domain.StepModel, job.IntakeStep)
		assert.Contains(t, reply, "job #4")
	})
}

func TestAdvance_FullWalk(t *testing.T) {
	m := testMachine()
	ctx := context.Background()
	job := draftAt(domain.StepModel)

	reply, err := m.Advance(ctx, job, "14 Pro")
	require.NoError(t, err)
	assert.Equal(t, "14pro", job.Model.String)
	assert.Equal(t, domain.StepQuantity, job.IntakeStep)
	assert.Equal(t, PromptQuantity, reply)

	reply, err = m.Advance(ctx, job, "4")
	require.NoError(t, err)
	assert.Equal(t, 4, job.Qty)
	assert.Equal(t, domain.StepCable, job.IntakeStep)
	assert.Equal(t, PromptCable, reply)

	reply, err = m.Advance(ctx, job, "no")
	require.NoError(t, err)
	assert.False(t, job.IncludeCable)
	assert.Equal(t, domain.StepNotes, job.IntakeStep)
	assert.Equal(t, PromptNotes, reply)

	reply, err = m.Advance(ctx, job, "skip")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, job.Status)
	assert.Equal(t, domain.StepNone, job.IntakeStep)
	require.True(t, job.Notes.Valid)
	assert.Empty(t, job.Notes.String)
	assert.Contains(t, reply, "Job #7 opened")
	assert.Contains(t, reply, "Model: 14pro | Qty: 4 | Cable: no")
}

func TestAdvance_UnknownModelStaysAtStepOne(t *testing.T) {
	m := testMachine()
	job := draftAt(domain.StepModel)

	reply, err := m.Advance(context.Background(), job, "Nokia 3310")
	require.NoError(t, err)
	assert.Equal(t, domain.StepModel, job.IntakeStep)
	assert.False(t, job.Model.Valid)
	assert.Contains(t, reply, "Unknown model")
	// the retry lists the catalog keys
	assert.Contains(t, reply, "13promax, 14pro, 14promax")
}

func TestAdvance_InvalidInputNeverAdvances(t *testing.T) {
	m := testMachine()
	ctx := context.Background()

	tests := []struct {
		name  string
		step  int
		input string
		reply string
	}{
		{name: "zero quantity", step: domain.StepQuantity, input: "0", reply: retryQuantity},
		{name: "negative quantity", step: domain.StepQuantity, input: "-1", reply: retryQuantity},
		{name: "non-numeric quantity", step: domain.StepQuantity, input: "a few", reply: retryQuantity},
		{name: "ambiguous cable answer", step: domain.StepCable, input: "maybe", reply: retryCable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := draftAt(tt.step)
			reply, err := m.Advance(ctx, job, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.step, job.IntakeStep)
			assert.Equal(t, domain.StatusDraft, job.Status)
			assert.Equal(t, tt.reply, reply)
		})
	}
}

func TestAdvance_NotesAreKept(t *testing.T) {
	m := testMachine()
	job := draftAt(domain.StepNotes)

	reply, err := m.Advance(context.Background(), job, "  cracked corner, customer waiting ")
	require.NoError(t, err)
	assert.Equal(t, "cracked corner, customer waiting", job.Notes.String)
	assert.Equal(t, domain.StatusOpen, job.Status)
	assert.Contains(t, reply, "opened")
}

func TestAdvance_NotInIntake(t *testing.T) {
	m := testMachine()
	job := draftAt(domain.StepNone)

	_, err := m.Advance(context.Background(), job, "anything")
	assert.Error(t, err)
}
