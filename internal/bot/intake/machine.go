// Package intake drives the conversational flow that turns an inbound
// photo into a fully specified job. The machine is a strict linear walk
// over the job's intake step: each step accepts exactly one semantic unit,
// invalid input re-prompts without advancing, and the conversation can
// never error out into a stuck state.
package intake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/pricing"
)

// Catalog is the read-only view of the price catalog the machine needs to
// validate model replies.
type Catalog interface {
	HasModel(ctx context.Context, key string) (bool, error)
	ModelKeys(ctx context.Context) ([]string, error)
}

// Machine advances draft jobs through the intake steps.
type Machine struct {
	catalog Catalog
}

// NewMachine creates an intake machine backed by the given catalog.
func NewMachine(catalog Catalog) *Machine {
	return &Machine{catalog: catalog}
}

// Intake step prompts and retry replies.
const (
	PromptModel    = "Step 1/4: What model? (e.g., 14pro, 14 pro max, 13 pro max)"
	PromptQuantity = "Step 2/4: How many screens (qty)?"
	PromptCable    = "Step 3/4: Include cable? (yes/no)"
	PromptNotes    = "Step 4/4: Any notes? (or reply 'skip')"

	retryQuantity = "❌ Please reply with a whole number (1 or more).\n" + PromptQuantity
	retryCable    = "❌ Please reply yes or no.\n" + PromptCable
)

// Start initializes intake on a fresh draft job and returns the first
// prompt.
func (m *Machine) Start(job *domain.Job) string {
	job.Status = domain.StatusDraft
	job.IntakeStep = domain.StepModel
	if job.PhotoURL.Valid {
		return fmt.Sprintf("📸 Got your photo. Created draft job #%d.\n%s", job.ID, PromptModel)
	}
	return fmt.Sprintf("🆕 Started job #%d.\n%s", job.ID, PromptModel)
}

// Advance applies one inbound text reply to a job mid-intake and returns
// the reply to send. The job is mutated in place; the caller persists it.
// The returned error is only ever an infrastructure failure (catalog
// lookup); malformed user input always resolves to a re-prompt.
func (m *Machine) Advance(ctx context.Context, job *domain.Job, text string) (string, error) {
	switch job.IntakeStep {
	case domain.StepModel:
		return m.advanceModel(ctx, job, text)
	case domain.StepQuantity:
		return m.advanceQuantity(job, text), nil
	case domain.StepCable:
		return m.advanceCable(job, text), nil
	case domain.StepNotes:
		return m.advanceNotes(job, text), nil
	default:
		return "", fmt.Errorf("job #%d is not in intake (step %d)", job.ID, job.IntakeStep)
	}
}

func (m *Machine) advanceModel(ctx context.Context, job *domain.Job, text string) (string, error) {
	key := pricing.NormalizeModel(text)
	known := false
	if key != "" {
		var err error
		known, err = m.catalog.HasModel(ctx, key)
		if err != nil {
			return "", fmt.Errorf("model lookup: %w", err)
		}
	}
	if !known {
		keys, err := m.catalog.ModelKeys(ctx)
		if err != nil {
			return "", fmt.Errorf("model listing: %w", err)
		}
		return "❌ Unknown model. Try: " + strings.Join(keys, ", "), nil
	}

	job.Model = sql.NullString{String: key, Valid: true}
	job.IntakeStep = domain.StepQuantity
	return PromptQuantity, nil
}

func (m *Machine) advanceQuantity(job *domain.Job, text string) string {
	qty, ok := ParseQuantity(text)
	if !ok {
		return retryQuantity
	}
	job.Qty = qty
	job.IntakeStep = domain.StepCable
	return PromptCable
}

func (m *Machine) advanceCable(job *domain.Job, text string) string {
	include, ok := ParseYesNo(text)
	if !ok {
		return retryCable
	}
	job.IncludeCable = include
	job.IntakeStep = domain.StepNotes
	return PromptNotes
}

func (m *Machine) advanceNotes(job *domain.Job, text string) string {
	notes := strings.TrimSpace(text)
	if IsSkip(notes) {
		notes = ""
	}
	job.Notes = sql.NullString{String: notes, Valid: true}
	job.Status = domain.StatusOpen
	job.IntakeStep = domain.StepNone

	cable := "no"
	if job.IncludeCable {
		cable = "yes"
	}
	return fmt.Sprintf("✅ Job #%d opened.\nModel: %s | Qty: %d | Cable: %s",
		job.ID, job.Model.String, job.Qty, cable)
}
