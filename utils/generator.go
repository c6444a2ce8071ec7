package utils

import (
	"math/rand"
	"time"

	"github.com/citytransit/bus_pass_backend/models"
	"gorm.io/gorm"
)

const passNumberDigits = 8
const passNumberPrefix = "BP"
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassNumber returns a pass number unused by any existing pass,
// e.g. "BP-7KQ2M9XA". Retries until an unused one is found.
func GeneratePassNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, passNumberDigits)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		number := passNumberPrefix + "-" + string(b)

		var pass models.Pass
		err := tx.Where("pass_number = ?", number).First(&pass).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
