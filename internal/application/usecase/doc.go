// Package usecase contains one orchestration unit per user operation.
//
// Every use case validates through the entity constructors before any write
// and propagates repository failures unchanged. None of them hold state
// between calls.
//
// Email uniqueness is check-then-act: two concurrent creates with the same
// email can both pass ExistsByEmail before either is saved. Only the storage
// layer can close that race (the SQL backends use a unique index and report
// violations as entity.ErrDuplicateEmail); the use cases add no locking.
package usecase

import "github.com/oksasatya/go-user-notification/internal/domain/entity"

func validateID(id int64) error {
	if id <= 0 {
		return entity.NewError(entity.KindInvalidArgument, "Invalid user ID")
	}
	return nil
}
