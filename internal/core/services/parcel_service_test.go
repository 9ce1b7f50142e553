package services_test

import (
	"context"
	"testing"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/adapters/persistence/repositories"
	"colisso/internal/core/domain"
	"colisso/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type parcelStoreFake struct {
	rows   map[uint]*models.Parcel
	nextID uint
}

func newParcelStoreFake(parcels ...*models.Parcel) *parcelStoreFake {
	f := &parcelStoreFake{rows: make(map[uint]*models.Parcel)}
	for _, p := range parcels {
		f.rows[p.ID] = p
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
	}
	return f
}

func (f *parcelStoreFake) Create(_ context.Context, p *models.Parcel) error {
	f.nextID++
	p.ID = f.nextID
	f.rows[p.ID] = p
	return nil
}

func (f *parcelStoreFake) GetByID(_ context.Context, id uint) (*models.Parcel, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *parcelStoreFake) GetByTrackingCode(_ context.Context, code string) (*models.Parcel, error) {
	for _, p := range f.rows {
		if p.TrackingCode == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *parcelStoreFake) Update(_ context.Context, p *models.Parcel) error {
	f.rows[p.ID] = p
	return nil
}

func (f *parcelStoreFake) Delete(_ context.Context, id uint) error {
	delete(f.rows, id)
	return nil
}

func (f *parcelStoreFake) ExistsByTrackingCode(_ context.Context, code string) (bool, error) {
	for _, p := range f.rows {
		if p.TrackingCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *parcelStoreFake) List(_ context.Context, _ domain.Scope, _ *repositories.ParcelFilter, _, _ int) ([]*models.Parcel, int64, error) {
	return nil, 0, nil
}

func (f *parcelStoreFake) CountByStatus(_ context.Context, _ domain.Scope) (int64, map[string]int64, error) {
	return 0, nil, nil
}

type historyLogFake struct {
	entries []*models.StatusHistory
}

func (f *historyLogFake) Append(_ context.Context, entry *models.StatusHistory) error {
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *historyLogFake) GetByID(_ context.Context, id uint) (*models.StatusHistory, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *historyLogFake) ListByParcel(_ context.Context, parcelID uint) ([]*models.StatusHistory, error) {
	var out []*models.StatusHistory
	for _, e := range f.entries {
		if e.ParcelID == parcelID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *historyLogFake) List(_ context.Context, parcelID *uint, _, _ int) ([]*models.StatusHistory, int64, error) {
	var out []*models.StatusHistory
	for _, e := range f.entries {
		if parcelID == nil || e.ParcelID == *parcelID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

type stationGetterFake struct {
	stations map[uint]*models.Station
}

func (f *stationGetterFake) GetStation(_ context.Context, id uint) (*models.Station, error) {
	s, ok := f.stations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

type userStoreFake struct {
	users map[uint]*models.User
}

func (f *userStoreFake) Create(_ context.Context, _ *models.User) error { return nil }

func (f *userStoreFake) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *userStoreFake) GetByPhone(_ context.Context, _ string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *userStoreFake) Update(_ context.Context, _ *models.User) error { return nil }
func (f *userStoreFake) Delete(_ context.Context, _ uint) error         { return nil }

func (f *userStoreFake) List(_ context.Context, _ *repositories.UserFilter, _, _ int) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (f *userStoreFake) ExistsByPhone(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func newParcelService(parcels *parcelStoreFake, history *historyLogFake) *services.ParcelService {
	stations := &stationGetterFake{stations: map[uint]*models.Station{
		1: {ID: 1, Name: "Douala Centrale"},
		9: {ID: 9, Name: "Yaounde Mvan"},
	}}
	users := &userStoreFake{users: map[uint]*models.User{
		7: {ID: 7, Phone: "+237600000007", FirstName: "Sena", LastName: "Abena"},
	}}
	return services.NewParcelService(parcels, history, stations, users)
}

func registeredParcel(id uint, status domain.ParcelStatus) *models.Parcel {
	return &models.Parcel{
		ID:                   id,
		TrackingCode:         "COL-0A1B2C3D",
		Description:          "Spare parts",
		Weight:               4.5,
		SenderID:             7,
		RecipientName:        "Essomba",
		RecipientPhone:       "+237600000002",
		RecipientAddress:     "Mvan, Yaounde",
		OriginStationID:      1,
		DestinationStationID: 9,
		Status:               string(status),
		Price:                3000,
		IsActive:             true,
	}
}

func TestChangeStatusAppendsOneHistoryRowPerTransition(t *testing.T) {
	t.Parallel()

	parcels := newParcelStoreFake(registeredParcel(1, domain.ParcelPending))
	history := &historyLogFake{}
	svc := newParcelService(parcels, history)
	ctx := context.Background()

	actor := uint(7)
	_, err := svc.ChangeStatus(ctx, actor, 1, &services.ChangeStatusInput{
		Status:  string(domain.ParcelInTransit),
		Comment: "Loaded on bus",
	})
	require.NoError(t, err)
	require.Len(t, history.entries, 1)

	first := history.entries[0]
	require.NotNil(t, first.OldStatus)
	assert.Equal(t, string(domain.ParcelPending), *first.OldStatus)
	assert.Equal(t, string(domain.ParcelInTransit), first.NewStatus)
	assert.Equal(t, "Loaded on bus", first.Comment)

	_, err = svc.ChangeStatus(ctx, actor, 1, &services.ChangeStatusInput{
		Status: string(domain.ParcelArrived),
	})
	require.NoError(t, err)
	require.Len(t, history.entries, 2, "every transition writes exactly one row")

	// A rejected transition must not write anything
	_, err = svc.ChangeStatus(ctx, actor, 1, &services.ChangeStatusInput{
		Status: string(domain.ParcelPending),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, history.entries, 2)
}

func TestChangeStatusDefaultsDestinationLocation(t *testing.T) {
	t.Parallel()

	parcels := newParcelStoreFake(registeredParcel(1, domain.ParcelInTransit))
	history := &historyLogFake{}
	svc := newParcelService(parcels, history)
	ctx := context.Background()

	// Arrival and delivery both happen at the destination station, so
	// a missing location_id falls back to it on either transition.
	arrived, err := svc.ChangeStatus(ctx, 7, 1, &services.ChangeStatusInput{
		Status: string(domain.ParcelArrived),
	})
	require.NoError(t, err)
	require.NotNil(t, arrived.ArrivedAt)
	require.Len(t, history.entries, 1)
	require.NotNil(t, history.entries[0].LocationID)
	assert.Equal(t, uint(9), *history.entries[0].LocationID)

	delivered, err := svc.ChangeStatus(ctx, 7, 1, &services.ChangeStatusInput{
		Status: string(domain.ParcelDelivered),
	})
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	require.Len(t, history.entries, 2)
	require.NotNil(t, history.entries[1].LocationID)
	assert.Equal(t, uint(9), *history.entries[1].LocationID)
}

func TestChangeStatusExplicitLocationWins(t *testing.T) {
	t.Parallel()

	parcels := newParcelStoreFake(registeredParcel(1, domain.ParcelInTransit))
	history := &historyLogFake{}
	svc := newParcelService(parcels, history)

	waypoint := uint(1)
	_, err := svc.ChangeStatus(context.Background(), 7, 1, &services.ChangeStatusInput{
		Status:     string(domain.ParcelArrived),
		LocationID: &waypoint,
	})
	require.NoError(t, err)
	require.Len(t, history.entries, 1)
	require.NotNil(t, history.entries[0].LocationID)
	assert.Equal(t, waypoint, *history.entries[0].LocationID)
}

func TestCreateParcelWritesOpeningHistory(t *testing.T) {
	t.Parallel()

	parcels := newParcelStoreFake()
	history := &historyLogFake{}
	svc := newParcelService(parcels, history)

	created, err := svc.CreateParcel(context.Background(), 7, &services.CreateParcelInput{
		Description:          "Documents",
		Weight:               0.5,
		SenderID:             7,
		RecipientName:        "Essomba",
		RecipientPhone:       "+237600000002",
		RecipientAddress:     "Mvan, Yaounde",
		OriginStationID:      1,
		DestinationStationID: 9,
		Price:                1500,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ParcelPending), created.Status)

	require.Len(t, history.entries, 1)
	opening := history.entries[0]
	assert.Nil(t, opening.OldStatus)
	assert.Equal(t, string(domain.ParcelPending), opening.NewStatus)
	require.NotNil(t, opening.LocationID)
	assert.Equal(t, uint(1), *opening.LocationID, "opening row is stamped at the origin station")
}
