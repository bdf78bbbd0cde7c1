package shop

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"taskify/internal/ledger"
	"taskify/internal/storage"
)

func newTestShop(t *testing.T) (*Shop, *storage.Store) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := storage.NewStore(db)
	return New(store, ledger.New(store)), store
}

var now = time.Date(2026, 1, 7, 10, 0, 0, 0, time.Local)

func TestFreeItemsAlwaysOwned(t *testing.T) {
	s, _ := newTestShop(t)

	owned, err := s.Owned(context.Background())
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	for _, id := range []string{"light", "dark"} {
		if !owned[id] {
			t.Errorf("free theme %q not owned on a fresh profile", id)
		}
	}
	if owned["sunset-glow"] {
		t.Error("paid theme owned without a purchase")
	}
}

func TestPurchaseDeductsAndRecordsOwnership(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()

	res, err := s.Purchase(ctx, "sunset-glow", now)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	// 500 initial - 500 cost + 100 first-theme reward.
	if res.PointsBalance != 100 {
		t.Fatalf("balance = %d, want 100", res.PointsBalance)
	}

	owned, err := s.Owned(ctx)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if !owned["sunset-glow"] {
		t.Fatal("purchased item not recorded as owned")
	}

	if _, err := s.Purchase(ctx, "sunset-glow", now); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("repeat purchase error = %v, want ErrAlreadyOwned", err)
	}
}

func TestPurchaseRejectsCatalogViolations(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()

	if _, err := s.Purchase(ctx, "no-such-item", now); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("unknown item error = %v, want ErrUnknownItem", err)
	}
	if _, err := s.Purchase(ctx, "ocean-breeze", now); !errors.Is(err, ErrComingSoon) {
		t.Fatalf("coming-soon error = %v, want ErrComingSoon", err)
	}
}

func TestPurchaseFailureLeavesNothingOwned(t *testing.T) {
	s, store := newTestShop(t)
	ctx := context.Background()

	// Drain the balance below doggo's price.
	if err := store.Put(ctx, ledger.PointsBalanceKey, "100"); err != nil {
		t.Fatalf("put: %v", err)
	}

	_, err := s.Purchase(ctx, "doggo", now)
	var short *ledger.InsufficientPointsError
	if !errors.As(err, &short) {
		t.Fatalf("error = %v, want InsufficientPointsError", err)
	}
	if short.Shortfall() != 400 {
		t.Fatalf("shortfall = %d, want 400", short.Shortfall())
	}

	owned, err := s.Owned(ctx)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if owned["doggo"] {
		t.Fatal("failed purchase recorded ownership")
	}
}

func TestFirstPetPurchaseUnlocksPetPal(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()

	res, err := s.Purchase(ctx, "doggo", now)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	found := false
	for _, ev := range res.NewlyUnlocked {
		if ev.AchievementID == ledger.PetPal {
			found = true
		}
	}
	if !found {
		t.Fatalf("first pet purchase should unlock pet_pal, got %+v", res.NewlyUnlocked)
	}
}

func TestSelectPetRequiresOwnership(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()

	if err := s.SelectPet(ctx, "doggo"); err == nil {
		t.Fatal("selected an unowned pet")
	}
	if err := s.SelectPet(ctx, "light"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("selecting a theme as pet = %v, want ErrUnknownItem", err)
	}

	if _, err := s.Purchase(ctx, "doggo", now); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if err := s.SelectPet(ctx, "doggo"); err != nil {
		t.Fatalf("select owned pet: %v", err)
	}

	pet, err := s.SelectedPet(ctx)
	if err != nil {
		t.Fatalf("selected pet: %v", err)
	}
	if pet == nil || pet.ID != "doggo" {
		t.Fatalf("selected pet = %+v, want doggo", pet)
	}
}

func TestOwnedRecoversFromCorruptDocument(t *testing.T) {
	s, store := newTestShop(t)
	ctx := context.Background()

	if err := store.Put(ctx, UnlockedItemsKey, "][ junk"); err != nil {
		t.Fatalf("put: %v", err)
	}

	owned, err := s.Owned(ctx)
	if err != nil {
		t.Fatalf("owned on corrupt document: %v", err)
	}
	if owned["sunset-glow"] || !owned["light"] {
		t.Fatalf("corrupt ownership recovered to %v, want free items only", owned)
	}
}
