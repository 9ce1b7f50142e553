package domain

// Status enumerations for the workflow aggregates. Every mutation goes
// through CanTransitionTo so an unknown value or a transition outside
// the table is rejected before anything is persisted.

// ParcelStatus represents the state of a parcel
type ParcelStatus string

const (
	ParcelPending        ParcelStatus = "pending"
	ParcelInTransit      ParcelStatus = "in_transit"
	ParcelArrived        ParcelStatus = "arrived"
	ParcelOutForDelivery ParcelStatus = "out_for_delivery"
	ParcelDelivered      ParcelStatus = "delivered"
	ParcelProblem        ParcelStatus = "problem"
	ParcelCancelled      ParcelStatus = "cancelled"
)

// parcelTransitions: delivered and cancelled are terminal; problem is
// recoverable so a stuck parcel can be put back in circulation.
var parcelTransitions = map[ParcelStatus][]ParcelStatus{
	ParcelPending:        {ParcelInTransit, ParcelProblem, ParcelCancelled},
	ParcelInTransit:      {ParcelArrived, ParcelProblem, ParcelCancelled},
	ParcelArrived:        {ParcelOutForDelivery, ParcelDelivered, ParcelProblem, ParcelCancelled},
	ParcelOutForDelivery: {ParcelDelivered, ParcelProblem},
	ParcelProblem:        {ParcelInTransit, ParcelOutForDelivery, ParcelCancelled},
	ParcelDelivered:      {},
	ParcelCancelled:      {},
}

// IsValid reports whether s is a known parcel status
func (s ParcelStatus) IsValid() bool {
	_, ok := parcelTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed
func (s ParcelStatus) IsTerminal() bool {
	next, ok := parcelTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> next is in the transition table
func (s ParcelStatus) CanTransitionTo(next ParcelStatus) bool {
	for _, allowed := range parcelTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReservationStatus represents the state of a trip reservation
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPaid      ReservationStatus = "paid"
	ReservationValidated ReservationStatus = "validated"
	ReservationCancelled ReservationStatus = "cancelled"
)

// A counter agent may validate a ticket at any point before boarding, so
// validated is reachable from every non-terminal state, not just paid.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationPaid, ReservationValidated, ReservationCancelled},
	ReservationConfirmed: {ReservationPaid, ReservationValidated, ReservationCancelled},
	ReservationPaid:      {ReservationValidated, ReservationCancelled},
	ReservationValidated: {},
	ReservationCancelled: {},
}

// IsValid reports whether s is a known reservation status
func (s ReservationStatus) IsValid() bool {
	_, ok := reservationTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed
func (s ReservationStatus) IsTerminal() bool {
	next, ok := reservationTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> next is in the transition table
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DeliveryStatus represents the state of a delivery attempt
type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryAssigned   DeliveryStatus = "assigned"
	DeliveryInProgress DeliveryStatus = "in_progress"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryFailed     DeliveryStatus = "failed"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:    {DeliveryAssigned},
	DeliveryAssigned:   {DeliveryInProgress},
	DeliveryInProgress: {DeliveryDelivered, DeliveryFailed},
	DeliveryDelivered:  {},
	DeliveryFailed:     {},
}

// IsValid reports whether s is a known delivery status
func (s DeliveryStatus) IsValid() bool {
	_, ok := deliveryTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed
func (s DeliveryStatus) IsTerminal() bool {
	next, ok := deliveryTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> next is in the transition table
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TripStatus represents the state of a scheduled trip
type TripStatus string

const (
	TripPlanned   TripStatus = "planned"
	TripOngoing   TripStatus = "ongoing"
	TripFinished  TripStatus = "finished"
	TripCancelled TripStatus = "cancelled"
)

var tripTransitions = map[TripStatus][]TripStatus{
	TripPlanned:   {TripOngoing, TripCancelled},
	TripOngoing:   {TripFinished, TripCancelled},
	TripFinished:  {},
	TripCancelled: {},
}

// IsValid reports whether s is a known trip status
func (s TripStatus) IsValid() bool {
	_, ok := tripTransitions[s]
	return ok
}

// CanTransitionTo reports whether s -> next is in the transition table
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	for _, allowed := range tripTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// FundRequestStatus represents the state of a fund transfer request
type FundRequestStatus string

const (
	FundRequestPending  FundRequestStatus = "pending"
	FundRequestApproved FundRequestStatus = "approved"
	FundRequestRejected FundRequestStatus = "rejected"
)

var fundRequestTransitions = map[FundRequestStatus][]FundRequestStatus{
	FundRequestPending:  {FundRequestApproved, FundRequestRejected},
	FundRequestApproved: {},
	FundRequestRejected: {},
}

// IsValid reports whether s is a known fund request status
func (s FundRequestStatus) IsValid() bool {
	_, ok := fundRequestTransitions[s]
	return ok
}

// CanTransitionTo reports whether s -> next is in the transition table
func (s FundRequestStatus) CanTransitionTo(next FundRequestStatus) bool {
	for _, allowed := range fundRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
