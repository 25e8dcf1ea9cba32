package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ksabot/internal/domain"
	"github.com/m3rciful/ksabot/internal/storage"
)

type fakeStore struct {
	byTG    map[int64]domain.Employee
	byNIK   map[string]domain.Employee
	bound   map[string]int64
	balance float64
}

func (f *fakeStore) EmployeeByTelegramID(_ context.Context, id int64) (domain.Employee, error) {
	if e, ok := f.byTG[id]; ok {
		return e, nil
	}
	return domain.Employee{}, storage.ErrNotFound
}

func (f *fakeStore) EmployeeByNIK(_ context.Context, nik string) (domain.Employee, error) {
	if e, ok := f.byNIK[nik]; ok {
		return e, nil
	}
	return domain.Employee{}, storage.ErrNotFound
}

func (f *fakeStore) BindTelegramID(_ context.Context, nik string, id int64) error {
	if _, ok := f.byNIK[nik]; !ok {
		return storage.ErrNotFound
	}
	if f.bound == nil {
		f.bound = make(map[string]int64)
	}
	f.bound[nik] = id
	return nil
}

func (f *fakeStore) Balance(_ context.Context, _ string) (float64, error) {
	return f.balance, nil
}

func (f *fakeStore) LastDeposit(_ context.Context, _ string) (domain.DepositEntry, error) {
	return domain.DepositEntry{}, storage.ErrNotFound
}

func TestValidateNIK(t *testing.T) {
	assert.True(t, ValidateNIK("1234567890"))
	assert.False(t, ValidateNIK("123456789"))
	assert.False(t, ValidateNIK("12345678901"))
	assert.False(t, ValidateNIK("12345abc90"))
	assert.False(t, ValidateNIK(""))
	assert.False(t, ValidateNIK("١٢٣٤٥٦٧٨٩٠"))
}

func TestIdentify(t *testing.T) {
	svc := NewService(&fakeStore{byTG: map[int64]domain.Employee{
		42: {ID: 1, NIK: "1234567890", Name: "BUDI"},
	}})

	e, err := svc.Identify(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "BUDI", e.Name)

	_, err = svc.Identify(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestLookupNIK(t *testing.T) {
	svc := NewService(&fakeStore{byNIK: map[string]domain.Employee{
		"1234567890": {ID: 1, NIK: "1234567890", Name: "BUDI"},
	}})

	_, err := svc.LookupNIK(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrInvalidNIK)

	_, err = svc.LookupNIK(context.Background(), "0000000000")
	assert.ErrorIs(t, err, ErrNIKNotFound)

	e, err := svc.LookupNIK(context.Background(), "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "BUDI", e.Name)
}

func TestRegister(t *testing.T) {
	store := &fakeStore{byNIK: map[string]domain.Employee{
		"1234567890": {ID: 1, NIK: "1234567890", Name: "BUDI"},
	}}
	svc := NewService(store)

	assert.ErrorIs(t, svc.Register(context.Background(), "12", 42), ErrInvalidNIK)
	assert.ErrorIs(t, svc.Register(context.Background(), "9999999999", 42), ErrNIKNotFound)

	require.NoError(t, svc.Register(context.Background(), "1234567890", 42))
	assert.Equal(t, int64(42), store.bound["1234567890"])
}
