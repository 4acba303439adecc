package models

import (
	"fmt"

	"ride-entitlement/internal/shared/apperrors"
)

var ErrDriverNotFound = fmt.Errorf("driver %w", apperrors.ErrNotFound)
