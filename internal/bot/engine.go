// Package bot is the conversational core: it routes each inbound message
// to the command dispatcher or the intake state machine, runs the whole
// decision inside one storage transaction, and emits assignment
// notifications after the transaction commits.
package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/command"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/intake"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/notify"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/pricing"
	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/storage"
)

// Config holds the engine's business settings.
type Config struct {
	// HomeTimezone is the display zone for senders without a preference.
	HomeTimezone string
	// LaborRate is the flat per-job labor charge.
	LaborRate decimal.Decimal
}

// Engine handles one inbound message at a time. All state lives in
// storage; the engine itself is stateless and safe for concurrent use.
type Engine struct {
	cfg    Config
	store  *storage.Storage
	pricer *pricing.Engine
	router *notify.Router
	media  MediaStore
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine wires up the conversational core. A nil media store defaults
// to PassthroughMedia.
func NewEngine(cfg Config, store *storage.Storage, router *notify.Router, media MediaStore, logger *slog.Logger) *Engine {
	if media == nil {
		media = PassthroughMedia{}
	}
	return &Engine{
		cfg:    cfg,
		store:  store,
		pricer: pricing.NewEngine(cfg.LaborRate),
		router: router,
		media:  media,
		logger: logger,
		now:    time.Now,
	}
}

const (
	replyJobNotFound = "❌ Job not found."
	replyUnknownTech = "❌ Unknown technician. Jobs can only be assigned to active technicians."

	noticeDelivered = "\n🔔 Technician notified."
	noticePending   = "\n⚠️ Could not notify the technician; the assignment stands."
)

// pendingNotice is an assignment notification collected during the
// transaction and dispatched only after it commits.
type pendingNotice struct {
	tech domain.Technician
	job  domain.Job
}

// HandleMessage processes one inbound message and returns the reply text.
// The read-decide-write cycle runs inside a single transaction so rapid
// messages from the same customer serialize.
func (e *Engine) HandleMessage(ctx context.Context, msg domain.InboundMessage) (string, error) {
	var (
		reply  string
		notice *pendingNotice
	)

	err := e.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		reply, notice, err = e.route(ctx, q, msg)
		return err
	})
	if err != nil {
		return "", err
	}

	if notice != nil {
		if e.router.Dispatch(ctx, notice.tech, notice.job) {
			reply += noticeDelivered
		} else {
			reply += noticePending
		}
	}
	return reply, nil
}

// route decides what an inbound message means. Commands always win over
// intake parsing; media starts a fresh intake; otherwise the message
// belongs to the sender's active intake, and failing that it earns a help
// menu.
func (e *Engine) route(ctx context.Context, q *storage.Queries, msg domain.InboundMessage) (string, *pendingNotice, error) {
	if cmd, ok := command.Parse(msg.Body); ok {
		return e.dispatch(ctx, q, cmd, msg.From)
	}

	if msg.MediaURL != "" {
		reply, err := e.startIntake(ctx, q, msg.From, msg.MediaURL)
		return reply, nil, err
	}

	draft, err := q.ActiveDraft(ctx, msg.From)
	switch {
	case err == nil:
		reply, err := e.advanceIntake(ctx, q, draft, msg.Body)
		return reply, nil, err
	case errors.Is(err, domain.ErrJobNotFound):
		reply, err := e.helpFor(ctx, q, msg.From)
		return reply, nil, err
	default:
		return "", nil, err
	}
}

// startIntake creates a fresh draft job for the sender. A photo arriving
// while an intake is already in flight supersedes it: the old draft is
// canceled and the new one starts at step 1.
func (e *Engine) startIntake(ctx context.Context, q *storage.Queries, from, mediaURL string) (string, error) {
	if err := e.abandonActiveIntake(ctx, q, from); err != nil {
		return "", err
	}

	job := &domain.Job{
		CreatedAt:     e.now().UTC(),
		CustomerPhone: from,
		Qty:           1,
		Status:        domain.StatusDraft,
		IntakeStep:    domain.StepModel,
	}
	if mediaURL != "" {
		job.PhotoURL = sql.NullString{String: mediaURL, Valid: true}
	}
	if err := q.CreateJob(ctx, job); err != nil {
		return "", err
	}

	if mediaURL != "" {
		ref, err := e.media.Archive(ctx, job.ID, mediaURL)
		if err != nil {
			// keep the transport-hosted reference; archival is best effort
			e.logger.Warn("Media archival failed",
				slog.Int64("job_id", job.ID),
				slog.String("error", err.Error()),
			)
		} else if ref != mediaURL {
			job.PhotoURL = sql.NullString{String: ref, Valid: true}
			if err := q.UpdateJob(ctx, job); err != nil {
				return "", err
			}
		}
	}

	machine := intake.NewMachine(q)
	return machine.Start(job), nil
}

// abandonActiveIntake cancels the sender's in-flight draft, if any.
func (e *Engine) abandonActiveIntake(ctx context.Context, q *storage.Queries, from string) error {
	draft, err := q.ActiveDraft(ctx, from)
	if errors.Is(err, domain.ErrJobNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	draft.Status = domain.StatusCanceled
	draft.IntakeStep = domain.StepNone
	return q.UpdateJob(ctx, draft)
}

// advanceIntake feeds one text reply into the sender's active intake and
// persists the result. When the intake completes, the reply gains the full
// price breakdown.
func (e *Engine) advanceIntake(ctx context.Context, q *storage.Queries, draft *domain.Job, body string) (string, error) {
	machine := intake.NewMachine(q)
	reply, err := machine.Advance(ctx, draft, body)
	if err != nil {
		return "", err
	}
	if err := q.UpdateJob(ctx, draft); err != nil {
		return "", err
	}

	if draft.Status == domain.StatusOpen {
		entry, err := q.PriceByModel(ctx, draft.Model.String)
		switch {
		case err == nil:
			b := e.pricer.Breakdown(*entry, draft.Qty, draft.IncludeCable)
			reply += "\n" + formatBreakdown(b)
		case errors.Is(err, domain.ErrUnknownModel):
			// catalog changed mid-intake; the job still opens
			e.logger.Warn("No price for completed intake",
				slog.Int64("job_id", draft.ID),
				slog.String("model", draft.Model.String),
			)
		default:
			return "", err
		}
		reply += fmt.Sprintf("\n\nAssign with: /assign %d <techname>\nGet total anytime: /total %d", draft.ID, draft.ID)
	}
	return reply, nil
}

// dispatch executes a parsed slash-command.
func (e *Engine) dispatch(ctx context.Context, q *storage.Queries, cmd command.Command, from string) (string, *pendingNotice, error) {
	switch cmd.Kind {
	case command.KindHelp:
		return generalHelp, nil, nil
	case command.KindNew:
		reply, err := e.cmdNew(ctx, q, from)
		return reply, nil, err
	case command.KindCancel:
		reply, err := e.cmdCancel(ctx, q, from)
		return reply, nil, err
	case command.KindAssign:
		return e.cmdAssign(ctx, q, cmd)
	case command.KindTotal:
		reply, err := e.cmdTotal(ctx, q, cmd)
		return reply, nil, err
	case command.KindStatus:
		reply, err := e.cmdStatus(ctx, q, cmd, from)
		return reply, nil, err
	case command.KindTz:
		reply, err := e.cmdTz(ctx, q, cmd, from)
		return reply, nil, err
	case command.KindPrice:
		reply, err := e.cmdPrice(ctx, q, cmd)
		return reply, nil, err
	case command.KindSetPrice:
		reply, err := e.cmdSetPrice(ctx, q, cmd)
		return reply, nil, err
	default:
		return generalHelp, nil, nil
	}
}

// cmdNew force-starts a fresh intake, abandoning any draft in flight. The
// new job has no photo; intake still begins at the model step.
func (e *Engine) cmdNew(ctx context.Context, q *storage.Queries, from string) (string, error) {
	return e.startIntake(ctx, q, from, "")
}

func (e *Engine) cmdCancel(ctx context.Context, q *storage.Queries, from string) (string, error) {
	draft, err := q.ActiveDraft(ctx, from)
	if errors.Is(err, domain.ErrJobNotFound) {
		return "No active intake to cancel.", nil
	}
	if err != nil {
		return "", err
	}

	draft.Status = domain.StatusCanceled
	draft.IntakeStep = domain.StepNone
	if err := q.UpdateJob(ctx, draft); err != nil {
		return "", err
	}
	return "❌ Intake canceled. Send a photo to start a new job intake.", nil
}

func (e *Engine) cmdAssign(ctx context.Context, q *storage.Queries, cmd command.Command) (string, *pendingNotice, error) {
	job, err := q.GetJob(ctx, cmd.JobID)
	if errors.Is(err, domain.ErrJobNotFound) {
		return replyJobNotFound, nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	tech, err := q.TechnicianByName(ctx, cmd.TechName)
	if errors.Is(err, domain.ErrUnknownTechnician) {
		return replyUnknownTech, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	if !tech.Active {
		return replyUnknownTech, nil, nil
	}

	if !domain.CanTransition(job.Status, domain.StatusAssigned) {
		return fmt.Sprintf("❌ Job #%d is %s and cannot be assigned.", job.ID, job.Status), nil, nil
	}

	// re-assigning the same technician keeps the status and re-notifies
	job.Status = domain.StatusAssigned
	job.IntakeStep = domain.StepNone
	job.AssignedToID = sql.NullInt64{Int64: tech.ID, Valid: true}
	if err := q.UpdateJob(ctx, job); err != nil {
		return "", nil, err
	}

	reply := fmt.Sprintf("✅ Assigned job #%d to *%s*.", job.ID, tech.Name)
	return reply, &pendingNotice{tech: *tech, job: *job}, nil
}

func (e *Engine) cmdTotal(ctx context.Context, q *storage.Queries, cmd command.Command) (string, error) {
	job, err := q.GetJob(ctx, cmd.JobID)
	if errors.Is(err, domain.ErrJobNotFound) {
		return replyJobNotFound, nil
	}
	if err != nil {
		return "", err
	}

	if !job.Model.Valid {
		return fmt.Sprintf("❌ Job #%d has no model yet. Finish intake first.", job.ID), nil
	}

	entry, err := q.PriceByModel(ctx, job.Model.String)
	if errors.Is(err, domain.ErrUnknownModel) {
		return fmt.Sprintf("❌ No price on file for *%s*.", job.Model.String), nil
	}
	if err != nil {
		return "", err
	}

	b := e.pricer.Breakdown(*entry, job.Qty, job.IncludeCable)
	return fmt.Sprintf("🧮 Total for job #%d\n%s", job.ID, formatBreakdown(b)), nil
}

func (e *Engine) cmdStatus(ctx context.Context, q *storage.Queries, cmd command.Command, from string) (string, error) {
	job, err := q.GetJob(ctx, cmd.JobID)
	if errors.Is(err, domain.ErrJobNotFound) {
		return replyJobNotFound, nil
	}
	if err != nil {
		return "", err
	}

	if cmd.NewStatus == "" {
		return e.statusReport(ctx, q, job, from)
	}

	next := cmd.NewStatus
	if !domain.ValidStatus(next) {
		return fmt.Sprintf("❌ Unknown status %q. Valid: draft, open, assigned, done, canceled.", next), nil
	}
	if next == domain.StatusAssigned && job.Status != domain.StatusAssigned {
		return "❌ Use /assign <job_id> <techname> to assign jobs.", nil
	}
	if next == job.Status {
		return fmt.Sprintf("Job #%d is already %s.", job.ID, job.Status), nil
	}
	if !domain.CanTransition(job.Status, next) {
		return fmt.Sprintf("❌ Cannot change job #%d from %s to %s.", job.ID, job.Status, next), nil
	}

	prev := job.Status
	job.Status = next
	if job.IntakeStep != domain.StepNone {
		// leaving draft ends any conversation in flight
		job.IntakeStep = domain.StepNone
	}
	if err := q.UpdateJob(ctx, job); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Job #%d status: %s → %s.", job.ID, prev, next), nil
}

// statusReport renders the read-only /status view, with the creation time
// shown in the sender's preferred timezone.
func (e *Engine) statusReport(ctx context.Context, q *storage.Queries, job *domain.Job, from string) (string, error) {
	model := "-"
	if job.Model.Valid {
		model = job.Model.String
	}
	notes := "None"
	if job.Notes.Valid && job.Notes.String != "" {
		notes = job.Notes.String
	}

	assignee := ""
	if job.AssignedToID.Valid {
		tech, err := q.TechnicianByID(ctx, job.AssignedToID.Int64)
		if err == nil {
			assignee = fmt.Sprintf("\nAssigned to: %s", tech.Name)
		}
	}

	created, err := e.localTime(ctx, q, from, job.CreatedAt)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"📋 Job #%d\nModel: %s | Qty: %d\nStatus: %s%s\nCustomer: %s\nNotes: %s\nCreated: %s",
		job.ID, model, job.Qty, strings.ToUpper(job.Status), assignee, job.CustomerPhone, notes, created,
	), nil
}

func (e *Engine) cmdTz(ctx context.Context, q *storage.Queries, cmd command.Command, from string) (string, error) {
	zone, loc, err := resolveZone(cmd.Zone)
	if errors.Is(err, domain.ErrUnknownTimezone) {
		return "❌ Invalid timezone. Example: /tz Asia/Dubai or /tz America/New_York", nil
	}
	if err != nil {
		return "", err
	}

	if err := q.UpsertUserPref(ctx, from, zone); err != nil {
		return "", err
	}

	local := e.now().In(loc).Format("2006-01-02 15:04")
	return fmt.Sprintf("✅ Timezone set to *%s*. Current local time: %s", zone, local), nil
}

func (e *Engine) cmdPrice(ctx context.Context, q *storage.Queries, cmd command.Command) (string, error) {
	key := pricing.NormalizeModel(cmd.Model)
	if key == "" {
		return "❌ Unknown model.", nil
	}

	entry, err := q.PriceByModel(ctx, key)
	if errors.Is(err, domain.ErrUnknownModel) {
		keys, err := q.ModelKeys(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("❌ No price on file for *%s*. Models: %s", key, strings.Join(keys, ", ")), nil
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("📘 Price for *%s*: %s (+%s with cable)",
		entry.Model, pricing.FormatMoney(entry.UnitPrice), pricing.FormatMoney(entry.CableAdder)), nil
}

func (e *Engine) cmdSetPrice(ctx context.Context, q *storage.Queries, cmd command.Command) (string, error) {
	key := pricing.NormalizeModel(cmd.Model)
	if key == "" {
		return "❌ Unknown model.", nil
	}

	entry := &domain.PriceEntry{Model: key, UnitPrice: cmd.UnitPrice, CableAdder: cmd.CableAdder}
	if err := q.UpsertPrice(ctx, entry); err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Set *%s* = %s (+%s with cable).",
		key, pricing.FormatMoney(cmd.UnitPrice), pricing.FormatMoney(cmd.CableAdder)), nil
}

// localTime renders a timestamp in the sender's preferred zone, falling
// back to the shop's home zone, then UTC.
func (e *Engine) localTime(ctx context.Context, q *storage.Queries, from string, ts time.Time) (string, error) {
	zone := e.cfg.HomeTimezone
	pref, err := q.UserPref(ctx, from)
	if err != nil {
		return "", err
	}
	if pref != nil && pref.TZ != "" {
		zone = pref.TZ
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
		zone = "UTC"
	}
	return ts.In(loc).Format("2006-01-02 15:04") + " (" + zone + ")", nil
}

// formatBreakdown renders an itemized total. This is the only place
// amounts get rounded to two decimals.
func formatBreakdown(b pricing.Breakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Model: %s | Qty: %d\n", b.Model, b.Qty)
	fmt.Fprintf(&sb, "Unit: %s × %d = %s\n", pricing.FormatMoney(b.UnitPrice), b.Qty,
		pricing.FormatMoney(b.UnitPrice.Mul(decimal.NewFromInt(int64(b.Qty)))))
	if b.IncludeCable {
		fmt.Fprintf(&sb, "Cable add-on: %s\n", pricing.FormatMoney(b.CableAdder))
	}
	fmt.Fprintf(&sb, "Labor (flat): %s\n—\n", pricing.FormatMoney(b.Labor))
	fmt.Fprintf(&sb, "Grand Total: *%s*", pricing.FormatMoney(b.GrandTotal))
	return sb.String()
}

// helpFor picks the help menu for unrecognized plain text: technicians
// get their command list, everyone else the general menu.
func (e *Engine) helpFor(ctx context.Context, q *storage.Queries, from string) (string, error) {
	isTech, err := q.IsTechnician(ctx, from)
	if err != nil {
		return "", err
	}
	if isTech {
		return techHelp, nil
	}
	return generalHelp, nil
}

const generalHelp = `🛠 *MDTS Service Bot*
Commands:
• /new – start a job intake without a photo
• /assign <job_id> <techname> – assign job & notify tech
• /total <job_id> – itemized total (unit×qty + labor)
• /status <job_id> [new_status] – check or change status
• /price <model> – show price (e.g., /price 14pro)
• /setprice <model> <price> [+<cable>] – set price (e.g., /setprice 14pro 170 +10)
• /tz <city_or_zone> – set your timezone
• /cancel – abandon the current intake
• /help – this menu

Tip: Send a *photo first* to start intake.`

const techHelp = `🔧 *Technician Commands*
• /status <job_id> – check job status
• /status <job_id> done – mark job as completed
• /tz <city_or_zone> – set your timezone

💡 Reply with any message for this help menu.`
