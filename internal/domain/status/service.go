package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnknownTag           = errors.New("unknown status tag")
	ErrOutOfOrderTimestamp  = errors.New("timestamp precedes current status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// Transitions es la tabla de transiciones permitidas: para cada tag de
// origen, el conjunto de tags destino válidos. Un origen ausente no
// permite ninguna transición.
type Transitions map[Tag]map[Tag]struct{}

// DefaultTransitions permite cualquier transición salvo salir de
// deceased. Las reglas de negocio sobre lost/recovered las aplica la
// capa de reportes, no el ledger.
func DefaultTransitions() Transitions {
	all := []Tag{TagActive, TagLost, TagFound, TagRecovered, TagDeceased}
	t := make(Transitions, len(all))
	for _, from := range all {
		if from == TagDeceased {
			t[from] = map[Tag]struct{}{}
			continue
		}
		to := make(map[Tag]struct{}, len(all))
		for _, tag := range all {
			to[tag] = struct{}{}
		}
		t[from] = to
	}
	return t
}

// Ledger mantiene el historial append-only de estados por mascota.
type Ledger struct {
	repo        Repository
	transitions Transitions
}

func NewLedger(repo Repository, transitions Transitions) *Ledger {
	if transitions == nil {
		transitions = DefaultTransitions()
	}
	return &Ledger{
		repo:        repo,
		transitions: transitions,
	}
}

// Append agrega un registro de estado. Falla si el timestamp retrocede
// respecto del último registro o si la transición no está permitida.
func (l *Ledger) Append(ctx context.Context, petID string, tag Tag, reason string, at time.Time) (StatusRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || at.IsZero() {
		return StatusRecord{}, ErrInvalidInput
	}

	switch tag {
	case TagActive, TagLost, TagFound, TagRecovered, TagDeceased:
	default:
		return StatusRecord{}, ErrUnknownTag
	}

	cur, has, err := l.repo.Current(ctx, petID)
	if err != nil {
		return StatusRecord{}, err
	}
	if err := l.check(cur, has, tag, at); err != nil {
		return StatusRecord{}, err
	}

	rec := StatusRecord{
		ID:        uuid.NewString(),
		PetID:     petID,
		Tag:       tag,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: at,
	}

	if err := l.repo.Append(ctx, rec); err != nil {
		return StatusRecord{}, err
	}
	return rec, nil
}

// CanAppend valida las precondiciones de Append sin mutar nada. Sirve
// para que un caller que asienta estado al final de una secuencia de
// escrituras pueda rechazar antes de la primera.
func (l *Ledger) CanAppend(ctx context.Context, petID string, tag Tag, at time.Time) error {
	petID = strings.TrimSpace(petID)
	if petID == "" || at.IsZero() {
		return ErrInvalidInput
	}

	switch tag {
	case TagActive, TagLost, TagFound, TagRecovered, TagDeceased:
	default:
		return ErrUnknownTag
	}

	cur, has, err := l.repo.Current(ctx, petID)
	if err != nil {
		return err
	}
	return l.check(cur, has, tag, at)
}

func (l *Ledger) check(cur StatusRecord, has bool, tag Tag, at time.Time) error {
	if !has {
		return nil
	}
	if at.Before(cur.CreatedAt) {
		return ErrOutOfOrderTimestamp
	}
	allowed, ok := l.transitions[cur.Tag]
	if !ok {
		return ErrTransitionNotAllowed
	}
	if _, ok := allowed[tag]; !ok {
		return ErrTransitionNotAllowed
	}
	return nil
}

// Current devuelve el estado vigente del pet, o false si no tiene historial.
func (l *Ledger) Current(ctx context.Context, petID string) (StatusRecord, bool, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return StatusRecord{}, false, ErrInvalidInput
	}
	return l.repo.Current(ctx, petID)
}

func (l *Ledger) History(ctx context.Context, petID string) ([]StatusRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	return l.repo.History(ctx, petID)
}
