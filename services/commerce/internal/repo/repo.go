package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/commerce/pkg/db"
	"github.com/Skotchmaster/commerce/services/commerce/internal/models"
)

const maxCreateAttempts = 3

// ErrContention is returned when find-or-create keeps losing the race on a
// unique index.
var ErrContention = errors.New("repo: unique index contention")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) AutoMigrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

// findOrCreate looks a row up with find and, when it is absent, inserts the
// row produced by build inside a savepoint. Losing the insert race to a
// concurrent writer is resolved by finding again. created reports whether
// this call inserted the row.
func findOrCreate[T any](tx *gorm.DB, find func(*gorm.DB) (*T, error), build func() *T) (row *T, created bool, err error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		row, err = find(tx)
		if err == nil {
			return row, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}

		row = build()
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(row).Error
		})
		if err == nil {
			return row, true, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, false, err
		}
	}
	return nil, false, fmt.Errorf("%w after %d attempts", ErrContention, maxCreateAttempts)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
