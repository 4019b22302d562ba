package usecase

import (
	"strconv"

	"go-vet-clinic/internal/domain/entity"
)

// maxWriteAttempts bounds retries of inserts that lost a unique-key race.
const maxWriteAttempts = 3

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// clinicForWrite resolves the clinic a new row belongs to.
func clinicForWrite(scope entity.TenantScope, requested uint) (uint, error) {
	clinicID, ok := scope.ClinicForWrite(requested)
	if ok {
		return clinicID, nil
	}
	if scope.Unrestricted {
		return 0, ErrClinicRequired
	}
	return 0, ErrClinicOutsideTenant
}
