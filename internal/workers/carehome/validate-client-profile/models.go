// internal/workers/carehome/validate-client-profile/models.go
package validateclientprofile

import (
	"encoding/json"

	"carehome-workers/internal/models"
)

type Input struct {
	ClientProfile json.RawMessage `json:"clientProfile"`
}

type Output struct {
	ClientProfile      models.ClientProfile `json:"clientProfile"`
	ProfileValid       bool                 `json:"profileValid"`
	ValidationWarnings []string             `json:"validationWarnings"`
}
