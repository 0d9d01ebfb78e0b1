package domain

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/AERESAL/VolunteerHub-Backend/internal/events"
	"github.com/AERESAL/VolunteerHub-Backend/internal/observability"
)

// SignatureRequest identifies the activity to confirm and the supervisor to ask.
// When ActivityID is set it takes precedence over the field tuple.
type SignatureRequest struct {
	ActivityID string `json:"id,omitempty"`
	ActivityFields
}

// ResolvedActivity is an activity annotated with the user who owns it.
type ResolvedActivity struct {
	Activity
	Username string `json:"username"`
}

// SignatureWorkflow issues signature tokens, resolves them and applies the one-time confirmation.
type SignatureWorkflow struct {
	store    ActivityStore
	users    UserStore
	notifier SignatureNotifier
	validate *validator.Validate
	opts     options
}

// NewSignatureWorkflow constructs a SignatureWorkflow.
func NewSignatureWorkflow(store ActivityStore, users UserStore, notifier SignatureNotifier, opts ...Option) *SignatureWorkflow {
	return &SignatureWorkflow{
		store:    store,
		users:    users,
		notifier: notifier,
		validate: newValidator(),
		opts:     defaultOptions(opts),
	}
}

// RequestSignature records a fresh token on the matched activity and emails the supervisor a link.
// The token is persisted before the notification is sent; a send failure leaves the token usable.
func (w *SignatureWorkflow) RequestSignature(ctx context.Context, owner string, req SignatureRequest) (string, error) {
	if err := validateStruct(w.validate, req.ActivityFields); err != nil {
		observability.RecordSignatureRequest(observability.ResultRejected)
		return "", err
	}

	token := w.opts.newID()
	var target Activity
	_, err := updateCollection(ctx, w.store, owner, func(col *ActivityCollection) (bool, []Event, error) {
		backfillIDs(col.Activities, w.opts.newID)

		_, idx, found := lo.FindIndexOf(col.Activities, func(a Activity) bool {
			if req.ActivityID != "" {
				return a.ID == req.ActivityID
			}
			return a.matches(req.ActivityFields)
		})
		if !found {
			return false, nil, ErrNotFound
		}
		if col.Activities[idx].Signed {
			return false, nil, ErrAlreadySigned
		}

		tok := token
		col.Activities[idx].SignatureToken = &tok
		col.Activities[idx].Signed = false
		target = col.Activities[idx]

		now := w.opts.now()
		return true, []Event{{
			Type:       events.TypeSignatureRequested,
			ActivityID: target.ID,
			Owner:      owner,
			OccurredAt: now,
			Payload: events.SignatureRequested{
				ActivityID:      target.ID,
				Owner:           owner,
				SupervisorEmail: req.SupervisorEmail,
				OccurredAt:      now,
			},
		}}, nil
	})
	if err != nil {
		observability.RecordSignatureRequest(observability.ResultRejected)
		return "", err
	}

	submitterName, submitterEmail := w.submitter(ctx, owner)
	notice := SignatureRequestNotice{
		Token:           token,
		Owner:           owner,
		SubmitterName:   submitterName,
		SubmitterEmail:  submitterEmail,
		SupervisorName:  req.SupervisorName,
		SupervisorEmail: req.SupervisorEmail,
		Activity:        target,
	}
	if err := w.notifier.NotifySignatureRequest(ctx, notice); err != nil {
		observability.RecordSignatureRequest(observability.ResultNotifyFailed)
		log.Error().Err(err).Str("owner", owner).Str("activity_id", target.ID).
			Msg("domain: signature request persisted but notification failed")
		return token, dependency("send signature request", err)
	}

	observability.RecordSignatureRequest(observability.ResultSent)
	return token, nil
}

// ResolveByToken returns the unsigned activity holding token. Signed or unknown tokens
// are reported as ErrNotFound without further detail.
func (w *SignatureWorkflow) ResolveByToken(ctx context.Context, token string) (*ResolvedActivity, error) {
	owner, err := w.ownerOfToken(ctx, token)
	if err != nil {
		return nil, err
	}

	col, err := w.store.GetCollection(ctx, owner)
	if err != nil {
		return nil, dependency("load activities", err)
	}
	if col == nil {
		return nil, ErrNotFound
	}
	activity, found := lo.Find(col.Activities, func(a Activity) bool { return a.HasPendingToken(token) })
	if !found {
		return nil, ErrNotFound
	}
	return &ResolvedActivity{Activity: activity, Username: owner}, nil
}

// Confirm marks the activity holding token as signed and stores the signature blob.
// It succeeds at most once per token.
func (w *SignatureWorkflow) Confirm(ctx context.Context, token string, signature json.RawMessage) error {
	owner, err := w.ownerOfToken(ctx, token)
	if err != nil {
		return err
	}

	_, err = updateCollection(ctx, w.store, owner, func(col *ActivityCollection) (bool, []Event, error) {
		_, idx, found := lo.FindIndexOf(col.Activities, func(a Activity) bool { return a.HasPendingToken(token) })
		if !found {
			return false, nil, ErrNotFound
		}

		col.Activities[idx].Signed = true
		col.Activities[idx].SignatureData = append(json.RawMessage(nil), signature...)
		signed := col.Activities[idx]

		now := w.opts.now()
		return true, []Event{{
			Type:       events.TypeActivitySigned,
			ActivityID: signed.ID,
			Owner:      owner,
			OccurredAt: now,
			Payload: events.ActivitySigned{
				ActivityID: signed.ID,
				Owner:      owner,
				Hours:      RoundHours(signed.Hours()),
				OccurredAt: now,
			},
		}}, nil
	})
	if err != nil {
		return err
	}

	observability.RecordSignatureConfirmed()
	if err := w.opts.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("domain: leaderboard cache invalidation failed")
	}
	return nil
}

// ownerOfToken finds the user whose collection holds token unsigned, using the store's
// token index when it has one and a scan over every collection otherwise.
func (w *SignatureWorkflow) ownerOfToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrNotFound
	}

	if index, ok := w.store.(TokenIndex); ok {
		owner, err := index.OwnerOfToken(ctx, token)
		if err != nil {
			return "", dependency("lookup signature token", err)
		}
		if owner == "" {
			return "", ErrNotFound
		}
		return owner, nil
	}

	cols, err := w.store.ListCollections(ctx)
	if err != nil {
		return "", dependency("list activities", err)
	}
	for _, col := range cols {
		if lo.ContainsBy(col.Activities, func(a Activity) bool { return a.HasPendingToken(token) }) {
			return col.Username, nil
		}
	}
	return "", ErrNotFound
}

// submitter resolves the display name and email shown in the email; lookup failures fall back
// to the username.
func (w *SignatureWorkflow) submitter(ctx context.Context, owner string) (string, string) {
	user, err := w.users.GetUser(ctx, owner)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("domain: submitter profile lookup failed")
		return owner, ""
	}
	if user == nil {
		return owner, ""
	}
	name := owner
	if user.FirstName != "" && user.LastName != "" {
		name = user.FirstName + " " + user.LastName
	}
	return name, user.Email
}
