package costing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/margenes-api/internal/domain/costing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Conversión IVA
// ──────────────────────────────────────────────────────────────────────────────

// 118 bruto al 18% → 100 neto.
func TestGrossToNet_TasaEstandar(t *testing.T) {
	net := costing.GrossToNet(d("118"), d("18"))
	assert.True(t, net.Equal(d("100")), "118 / 1.18 = 100: %s", net)
}

// Tasa cero: neto == bruto.
func TestGrossToNet_TasaCero(t *testing.T) {
	net := costing.GrossToNet(d("50"), d("0"))
	assert.True(t, net.Equal(d("50")))
}

// Tasa corrupta (factor <= 0): devuelve el bruto sin tocar.
func TestGrossToNet_FactorNoPositivo(t *testing.T) {
	net := costing.GrossToNet(d("50"), d("-100"))
	assert.True(t, net.Equal(d("50")), "factor 0 devuelve el bruto")

	net = costing.GrossToNet(d("50"), d("-150"))
	assert.True(t, net.Equal(d("50")), "factor negativo devuelve el bruto")
}

// neto redondeado + IVA redondeado reconstruyen el bruto redondeado
// cuando el IVA se deriva como bruto - neto.
func TestVATAmount_RoundTrip(t *testing.T) {
	for _, gross := range []string{"118", "99.99", "0.01", "12345.67"} {
		g := d(gross)
		net := costing.GrossToNet(g, d("18"))
		vat := costing.VATAmount(g, d("18"))

		assert.True(t, net.Add(vat).Equal(g),
			"neto + IVA debe reconstruir el bruto exacto para %s", gross)
	}
}

// Redondeo 2 decimales con mitades hacia arriba.
func TestRoundMoney_MitadesHaciaArriba(t *testing.T) {
	assert.Equal(t, "2.35", costing.RoundMoney(d("2.345")).StringFixed(2))
	assert.Equal(t, "2.34", costing.RoundMoney(d("2.344")).StringFixed(2))
	assert.Equal(t, "10.01", costing.RoundMoney(d("10.005")).StringFixed(2))
}
