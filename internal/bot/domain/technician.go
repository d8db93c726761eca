package domain

// Technician is a repair technician who can be assigned jobs. Technicians
// are deactivated rather than deleted so historical assignments keep a
// valid reference.
type Technician struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Address string `db:"address"`
	Active  bool   `db:"active"`
}

// UserPreference holds per-sender settings, keyed by phone. Created lazily
// on the first /tz command.
type UserPreference struct {
	ID    int64  `db:"id"`
	Phone string `db:"phone"`
	TZ    string `db:"tz"`
}
