// Package repository implements the MySQL storage behind the booking
// engine.  Lookups return (nil, nil) when a row does not exist so the
// engine can report which entity was missing.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-booking/internal/booking"
)

// ErrEmailExists is returned by UserRepo.Create when the email is taken.
// Handlers translate it into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// MySQL server error numbers the repositories react to.
const (
	erDupEntry        = 1062
	erLockWaitTimeout = 1205
	erLockDeadlock    = 1213
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool { return mysqlErrNumber(err) == erDupEntry }

// lockConflict wraps deadlocks and lock wait timeouts in
// booking.ErrConflict: the request lost a race for the same rooms.
func lockConflict(err error) error {
	switch mysqlErrNumber(err) {
	case erLockDeadlock, erLockWaitTimeout:
		return fmt.Errorf("%w: %v", booking.ErrConflict, err)
	}
	return err
}
