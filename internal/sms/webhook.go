// Package sms is the inbound text-message transport: a webhook that receives
// messages from Twilio, hands them to the interpreter and sends the reply.
package sms

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	twilioclient "github.com/twilio/twilio-go/client"

	"github.com/mmynk/iou/internal/apperr"
	"github.com/mmynk/iou/internal/command"
	"github.com/mmynk/iou/internal/dedupe"
	"github.com/mmynk/iou/internal/metrics"
	"github.com/mmynk/iou/internal/notify"
)

// emptyTwiML acknowledges a message without replying inline. Replies are
// sent separately through the notifier.
const emptyTwiML = "<Response></Response>"

const (
	maxFormBytes = 64 << 10
	sendTimeout  = 15 * time.Second
)

// Interpreter handles the text of one message.
type Interpreter interface {
	Handle(ctx context.Context, text, sender string) (string, error)
}

// Config configures a Handler.
type Config struct {
	// ValidateSignatures enables X-Twilio-Signature checks using AuthToken.
	ValidateSignatures bool
	AuthToken          string
	// PublicURL is the scheme and host Twilio posts to, e.g.
	// "https://iou.example.com". Signatures cover the full public URL.
	PublicURL string
	// DedupeTTL is how long a MessageSid is remembered.
	DedupeTTL time.Duration
}

// Handler serves the Twilio webhook.
type Handler struct {
	interp    Interpreter
	sender    notify.Sender
	seen      dedupe.Store
	metrics   *metrics.Metrics
	validator *twilioclient.RequestValidator
	publicURL string
	dedupeTTL time.Duration
}

// NewHandler creates a Handler. seen may be nil to disable de-duplication.
func NewHandler(interp Interpreter, sender notify.Sender, seen dedupe.Store, m *metrics.Metrics, cfg Config) *Handler {
	h := &Handler{
		interp:    interp,
		sender:    sender,
		seen:      seen,
		metrics:   m,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		dedupeTTL: cfg.DedupeTTL,
	}
	if h.dedupeTTL == 0 {
		h.dedupeTTL = 24 * time.Hour
	}
	if cfg.ValidateSignatures {
		v := twilioclient.NewRequestValidator(cfg.AuthToken)
		h.validator = &v
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	return h
}

// Routes returns a router with the webhook mounted at /incoming/.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/incoming", h.ServeIncoming)
	r.Post("/incoming/", h.ServeIncoming)
	return r
}

// ServeIncoming handles one delivery of an inbound message.
func (h *Handler) ServeIncoming(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if h.validator != nil && !h.validSignature(r) {
		slog.Warn("rejecting webhook with bad signature", "remote_addr", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	body := r.PostForm.Get("Body")
	from := r.PostForm.Get("From")
	sid := r.PostForm.Get("MessageSid")
	if body == "" || from == "" {
		http.Error(w, "Body and From are required", http.StatusBadRequest)
		return
	}

	kind := string(command.Classify(body))
	start := time.Now()

	if sid != "" && h.seen != nil {
		isNew, err := h.seen.MarkProcessed(r.Context(), sid, h.dedupeTTL)
		if err != nil {
			slog.Warn("dedupe check failed, handling message anyway", "sid", sid, "error", err)
		} else if !isNew {
			slog.Info("ignoring repeated delivery", "sid", sid, "sender", from)
			h.metrics.ObserveMessage(kind, metrics.OutcomeDuplicate, time.Since(start))
			writeTwiML(w)
			return
		}
	}

	reply, err := h.interp.Handle(r.Context(), body, from)

	if err != nil {
		appErr, ok := apperr.As(err)
		switch {
		case ok && appErr.Silent():
			slog.Info("message denied", "sender", from, "command", kind, "reason", appErr.Reason)
			h.metrics.ObserveMessage(kind, metrics.OutcomeDenied, time.Since(start))
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		case ok:
			slog.Info("message rejected", "sender", from, "command", kind, "error", appErr.Kind.String())
			h.metrics.ObserveMessage(kind, metrics.OutcomeRejected, time.Since(start))
			reply = appErr.Message()
		default:
			slog.Error("failed to handle message", "sender", from, "command", kind, "sid", sid, "error", err)
			h.metrics.ObserveMessage(kind, metrics.OutcomeFailed, time.Since(start))
			h.release(r.Context(), sid)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	} else if reply == "" {
		h.metrics.ObserveMessage(kind, metrics.OutcomeNoReply, time.Since(start))
	} else {
		h.metrics.ObserveMessage(kind, metrics.OutcomeReplied, time.Since(start))
	}

	if reply != "" {
		h.deliver(r.Context(), from, reply)
	}
	writeTwiML(w)
}

// deliver sends reply to the sender. The ledger change is already committed,
// so a failed send is logged and not retried.
func (h *Handler) deliver(ctx context.Context, to, reply string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := h.sender.Send(ctx, to, reply); err != nil {
		slog.Error("failed to send reply", "to", to, "error", err)
		h.metrics.ObserveNotification(false)
		return
	}
	h.metrics.ObserveNotification(true)
}

// release forgets sid so Twilio's retry of a failed delivery is handled.
func (h *Handler) release(ctx context.Context, sid string) {
	if sid == "" || h.seen == nil {
		return
	}
	if err := h.seen.Release(context.WithoutCancel(ctx), sid); err != nil {
		slog.Warn("failed to release message id", "sid", sid, "error", err)
	}
}

func (h *Handler) validSignature(r *http.Request) bool {
	signature := r.Header.Get("X-Twilio-Signature")
	if signature == "" {
		return false
	}

	params := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return h.validator.Validate(h.publicURL+r.URL.RequestURI(), params, signature)
}

func writeTwiML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, emptyTwiML)
}
