package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwaggerInfo_NilBeforeGeneration(t *testing.T) {
	// Swagger-описание регистрируется сгенерированным `swag init` кодом;
	// до генерации его нет
	assert.Nil(t, SwaggerInfo())
}
