// Package shop is the cosmetic store: themes and pet companions bought
// with points. Pricing and ownership live here; the points deduction and
// the first-theme/first-pet achievements go through the ledger.
package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskify/internal/ledger"
	"taskify/internal/storage"
)

const (
	// UnlockedItemsKey holds the owned item ids as a JSON array.
	UnlockedItemsKey = "taskifyProUnlockedItems"

	// SelectedPetKey holds the id of the active pet companion.
	SelectedPetKey = "taskifyProSelectedPet"
)

var (
	ErrUnknownItem  = errors.New("unknown store item")
	ErrComingSoon   = errors.New("item is coming soon")
	ErrAlreadyOwned = errors.New("item already unlocked")
)

type Shop struct {
	store  *storage.Store
	ledger *ledger.Ledger
}

func New(store *storage.Store, l *ledger.Ledger) *Shop {
	return &Shop{store: store, ledger: l}
}

// Owned returns the set of unlocked item ids. Free items are always owned.
// A corrupt ownership document reads as "nothing purchased".
func (s *Shop) Owned(ctx context.Context) (map[string]bool, error) {
	owned := map[string]bool{}
	for _, it := range All() {
		if it.Free() {
			owned[it.ID] = true
		}
	}

	raw, ok, err := s.store.Get(ctx, UnlockedItemsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return owned, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return owned, nil
	}
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

// Purchase buys an item through the ledger and records ownership. The
// ledger enforces affordability (InsufficientPointsError carries the
// shortfall); the shop enforces catalog rules.
func (s *Shop) Purchase(ctx context.Context, itemID string, now time.Time) (*ledger.PurchaseResult, error) {
	item, ok := Find(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if item.ComingSoon {
		return nil, fmt.Errorf("%w: %s", ErrComingSoon, item.Name)
	}

	owned, err := s.Owned(ctx)
	if err != nil {
		return nil, err
	}
	if owned[item.ID] {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyOwned, item.Name)
	}

	res, err := s.ledger.UnlockStoreItem(ctx, item.ID, item.Cost, item.Kind, now)
	if err != nil {
		return nil, err
	}

	if err := s.recordOwnership(ctx, item.ID); err != nil {
		return nil, err
	}
	return res, nil
}

// SelectPet makes an owned pet the active companion.
func (s *Shop) SelectPet(ctx context.Context, petID string) error {
	item, ok := Find(petID)
	if !ok || item.Kind != ledger.ItemPet {
		return fmt.Errorf("%w: %q", ErrUnknownItem, petID)
	}
	owned, err := s.Owned(ctx)
	if err != nil {
		return err
	}
	if !owned[item.ID] {
		return fmt.Errorf("pet %s is not unlocked yet", item.Name)
	}
	return s.store.Put(ctx, SelectedPetKey, item.ID)
}

// SelectedPet returns the active pet, if any.
func (s *Shop) SelectedPet(ctx context.Context) (*Item, error) {
	raw, ok, err := s.store.Get(ctx, SelectedPetKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	item, found := Find(raw)
	if !found {
		return nil, nil
	}
	return &item, nil
}

func (s *Shop) recordOwnership(ctx context.Context, itemID string) error {
	var ids []string
	if raw, ok, err := s.store.Get(ctx, UnlockedItemsKey); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			ids = nil
		}
	}

	for _, id := range ids {
		if id == itemID {
			return nil
		}
	}
	ids = append(ids, itemID)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, UnlockedItemsKey, string(data))
}
