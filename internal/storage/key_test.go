package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptKey(t *testing.T) {
	key, err := ReceiptKey("edificio-centro", "fundaciones", 42, ".pdf.gz")
	require.NoError(t, err)
	assert.Equal(t, "edificio-centro/fundaciones/receipt-42.pdf.gz", key)

	key, err = ReceiptKey("obra-de-prueba-1", "etapa-2", 7, ".jpg")
	require.NoError(t, err)
	assert.Equal(t, "obra-de-prueba-1/etapa-2/receipt-7.jpg", key)
}

func TestReceiptKeyRejectsMissingComponents(t *testing.T) {
	tests := []struct {
		name string
		work string
		part string
		id   uint
		ext  string
	}{
		{"empty work segment", "", "fundaciones", 42, ".jpg"},
		{"empty part segment", "edificio-centro", "", 42, ".jpg"},
		{"zero expense id", "edificio-centro", "fundaciones", 0, ".jpg"},
		{"empty extension", "edificio-centro", "fundaciones", 42, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReceiptKey(tt.work, tt.part, tt.id, tt.ext)
			assert.Error(t, err)
		})
	}
}
