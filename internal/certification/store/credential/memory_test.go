package credential

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	"accredit/pkg/platform/sentinel"
)

func newCredential(subject id.UserID, tier models.TierKey, number, code string) *models.Credential {
	return &models.Credential{
		ID:               id.NewCredentialID(),
		Subject:          subject,
		TierKey:          tier,
		Status:           models.CredentialStatusIssued,
		IssuedAt:         time.Now(),
		CredentialNumber: number,
		VerificationCode: code,
		SkillsSnapshot:   models.SkillSnapshot{models.DimensionOralDelivery: 70},
		AreasOfLaw:       []string{"Contract"},
		PaymentStatus:    models.PaymentStatusPaid,
	}
}

func TestInMemoryStoreInsertIssued(t *testing.T) {
	ctx := context.Background()
	subject := id.UserID(uuid.New())

	t.Run("rejects a second issued credential for the same tier", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.InsertIssued(ctx, newCredential(subject, models.TierFoundation, "ACC-2026-00001", "AAAA-AAAA-AAAA")))

		err := store.InsertIssued(ctx, newCredential(subject, models.TierFoundation, "ACC-2026-00002", "BBBB-BBBB-BBBB"))
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	})

	t.Run("reports identifier collisions distinctly", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.InsertIssued(ctx, newCredential(subject, models.TierFoundation, "ACC-2026-00001", "AAAA-AAAA-AAAA")))

		other := id.UserID(uuid.New())
		err := store.InsertIssued(ctx, newCredential(other, models.TierFoundation, "ACC-2026-00002", "AAAA-AAAA-AAAA"))
		assert.ErrorIs(t, err, models.ErrVerificationCodeTaken)
		assert.ErrorIs(t, err, sentinel.ErrConflict)

		err = store.InsertIssued(ctx, newCredential(other, models.TierFoundation, "ACC-2026-00001", "CCCC-CCCC-CCCC"))
		assert.ErrorIs(t, err, models.ErrCredentialNumberTaken)
	})

	t.Run("exactly one concurrent insert wins", func(t *testing.T) {
		store := NewInMemoryStore()
		const goroutines = 20
		var wg sync.WaitGroup
		var wins, conflicts atomic.Int32

		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				number := models.FormatCredentialNumber("ACC", 2026, int64(i+1))
				code := models.FormatVerificationCode(string(models.VerificationCodeAlphabet[i]) + "BBBBBBBBBBB")
				err := store.InsertIssued(ctx, newCredential(subject, models.TierAdvanced, number, code))
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, sentinel.ErrAlreadyUsed):
					conflicts.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(goroutines-1), conflicts.Load())
	})
}

func TestInMemoryStoreLookups(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	subject := id.UserID(uuid.New())
	original := newCredential(subject, models.TierFoundation, "ACC-2026-00001", "AAAA-BBBB-CCCC")
	require.NoError(t, store.InsertIssued(ctx, original))
	require.NoError(t, store.InsertIssued(ctx, newCredential(subject, models.TierAdvanced, "ACC-2026-00002", "DDDD-EEEE-FFFF")))

	t.Run("find by verification code", func(t *testing.T) {
		found, err := store.FindByVerificationCode(ctx, "AAAA-BBBB-CCCC")
		require.NoError(t, err)
		assert.Equal(t, original.ID, found.ID)

		_, err = store.FindByVerificationCode(ctx, "ZZZZ-ZZZZ-ZZZZ")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("find issued by subject and tier", func(t *testing.T) {
		found, err := store.FindIssued(ctx, subject, models.TierFoundation)
		require.NoError(t, err)
		assert.Equal(t, "ACC-2026-00001", found.CredentialNumber)

		_, err = store.FindIssued(ctx, subject, models.TierDistinction)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list by subject is ordered and isolated", func(t *testing.T) {
		list, err := store.ListBySubject(ctx, subject)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "ACC-2026-00001", list[0].CredentialNumber)
		assert.Equal(t, "ACC-2026-00002", list[1].CredentialNumber)

		list[0].SkillsSnapshot[models.DimensionOralDelivery] = 0
		again, err := store.FindIssued(ctx, subject, models.TierFoundation)
		require.NoError(t, err)
		assert.Equal(t, 70, again.SkillsSnapshot[models.DimensionOralDelivery])
	})
}
