package domain

import (
	"slices"
	"time"
)

// State is the whole shared state of the client. Values are treated as
// immutable once published: every With*/Without* method returns a new State
// and leaves the receiver and its slices untouched.
type State struct {
	Accounts        []Account
	ActiveAccountID AccountID
	Rentals         []Rental
	History         []HistoryRecord
}

// PersistedState is the subset of State that survives a restart.
type PersistedState struct {
	Accounts        []Account
	ActiveAccountID AccountID
	History         []HistoryRecord
}

func (s State) Persisted() PersistedState {
	return PersistedState{
		Accounts:        s.Accounts,
		ActiveAccountID: s.ActiveAccountID,
		History:         s.History,
	}
}

func StateFromPersisted(p PersistedState) State {
	return State{
		Accounts:        p.Accounts,
		ActiveAccountID: p.ActiveAccountID,
		History:         p.History,
	}
}

func (s State) Account(id AccountID) (Account, bool) {
	for _, account := range s.Accounts {
		if account.ID == id {
			return account, true
		}
	}
	return Account{}, false
}

func (s State) ActiveAccount() (Account, bool) {
	if s.ActiveAccountID == "" {
		return Account{}, false
	}
	return s.Account(s.ActiveAccountID)
}

func (s State) Rental(id RequestID) (Rental, bool) {
	for _, rental := range s.Rentals {
		if rental.RequestID == id {
			return rental, true
		}
	}
	return Rental{}, false
}

func (s State) RentalsFor(accountID AccountID) []Rental {
	rentals := make([]Rental, 0, len(s.Rentals))
	for _, rental := range s.Rentals {
		if rental.AccountID == accountID {
			rentals = append(rentals, rental)
		}
	}
	return rentals
}

func (s State) HistoryFor(accountID AccountID) []HistoryRecord {
	return FilterHistory(s.History, func(record HistoryRecord) bool {
		return record.AccountID == accountID
	})
}

// WithAccount appends account; it becomes active when nothing is active.
func (s State) WithAccount(account Account) (State, bool) {
	if _, exists := s.Account(account.ID); exists {
		return s, false
	}

	s.Accounts = append(slices.Clip(s.Accounts), account)
	if s.ActiveAccountID == "" {
		s.ActiveAccountID = account.ID
	}
	return s, true
}

func (s State) WithAccountPatch(id AccountID, patch AccountPatch) (State, bool) {
	index := slices.IndexFunc(s.Accounts, func(account Account) bool { return account.ID == id })
	if index < 0 {
		return s, false
	}

	accounts := slices.Clone(s.Accounts)
	accounts[index] = accounts[index].apply(patch)
	s.Accounts = accounts
	return s, true
}

// WithoutAccount removes the account together with its rentals and history.
func (s State) WithoutAccount(id AccountID) (State, bool) {
	if _, exists := s.Account(id); !exists {
		return s, false
	}

	accounts := make([]Account, 0, len(s.Accounts))
	for _, account := range s.Accounts {
		if account.ID != id {
			accounts = append(accounts, account)
		}
	}

	rentals := make([]Rental, 0, len(s.Rentals))
	for _, rental := range s.Rentals {
		if rental.AccountID != id {
			rentals = append(rentals, rental)
		}
	}

	s.History = FilterHistory(s.History, func(record HistoryRecord) bool {
		return record.AccountID != id
	})
	s.Accounts = accounts
	s.Rentals = rentals

	if s.ActiveAccountID == id {
		s.ActiveAccountID = ""
		if len(accounts) > 0 {
			s.ActiveAccountID = accounts[0].ID
		}
	}
	return s, true
}

func (s State) WithActiveAccount(id AccountID) State {
	s.ActiveAccountID = id
	return s
}

// WithRental adds rental to the active set, replacing any entry with the same request id.
func (s State) WithRental(rental Rental) State {
	rentals := make([]Rental, 0, len(s.Rentals)+1)
	for _, existing := range s.Rentals {
		if existing.RequestID != rental.RequestID {
			rentals = append(rentals, existing)
		}
	}
	s.Rentals = append(rentals, rental)
	return s
}

func (s State) withRentalAt(index int, rental Rental) State {
	rentals := slices.Clone(s.Rentals)
	rentals[index] = rental
	s.Rentals = rentals
	return s
}

func (s State) rentalIndex(id RequestID) int {
	return slices.IndexFunc(s.Rentals, func(rental Rental) bool { return rental.RequestID == id })
}

// WithRentalStatus sets the status of an active rental in place.
func (s State) WithRentalStatus(id RequestID, status RentalStatus) (State, bool) {
	index := s.rentalIndex(id)
	if index < 0 {
		return s, false
	}

	rental := s.Rentals[index]
	rental.Status = status
	return s.withRentalAt(index, rental), true
}

// Resolved records an arrived code and archives the rental in one step.
// Unknown or no-longer-pollable rentals are left alone.
func (s State) Resolved(id RequestID, code string, at time.Time) (State, bool) {
	index := s.rentalIndex(id)
	if index < 0 || !s.Rentals[index].Status.IsPollable() {
		return s, false
	}

	rental := s.Rentals[index]
	rental.SMSCode = code
	rental.Status = RentalStatusReceived

	next := s.withRentalAt(index, rental)
	next.History = PrependHistory(s.History, NewHistoryRecord(rental, at))
	return next, true
}

// Retired applies a close or reject status and archives the rental in one step.
func (s State) Retired(id RequestID, status RentalStatus, at time.Time) (State, bool) {
	index := s.rentalIndex(id)
	if index < 0 {
		return s, false
	}

	rental := s.Rentals[index]
	rental.Status = status

	next := s.withRentalAt(index, rental)
	next.History = PrependHistory(s.History, NewHistoryRecord(rental, at))
	return next, true
}

// WithoutRental drops lease from the active set if it is still the same lease.
func (s State) WithoutRental(lease Rental) (State, bool) {
	index := s.rentalIndex(lease.RequestID)
	if index < 0 || !s.Rentals[index].SameLease(lease) {
		return s, false
	}

	s.Rentals = slices.Delete(slices.Clone(s.Rentals), index, index+1)
	return s, true
}

// WithHistory prepends record to the capped ledger.
func (s State) WithHistory(record HistoryRecord) State {
	s.History = PrependHistory(s.History, record)
	return s
}

// WithoutHistory clears the ledger for one account, or entirely when accountID is empty.
func (s State) WithoutHistory(accountID AccountID) (State, bool) {
	if len(s.History) == 0 {
		return s, false
	}

	if accountID == "" {
		s.History = nil
		return s, true
	}

	kept := FilterHistory(s.History, func(record HistoryRecord) bool {
		return record.AccountID != accountID
	})
	if len(kept) == len(s.History) {
		return s, false
	}
	s.History = kept
	return s, true
}
