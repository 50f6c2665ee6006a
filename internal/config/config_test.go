package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/posdesk-backend/internal/modules/lookup"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_USER", "svc_posdesk")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("AUTH_SECRET", "token-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, 2, cfg.DB.MaxRetries)
	assert.Equal(t, 64, cfg.PoolCapacity)
	assert.Equal(t, 1, cfg.Reprint.Limits[lookup.DocumentInvoice])
	assert.Equal(t, 2, cfg.Reprint.Limits[lookup.DocumentKitchenTicket])
	assert.Equal(t, "[facturacion].[IAE_TipoFacturacion]", cfg.Reprint.PayloadRoutine)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_USER", "svc_posdesk")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("AUTH_SECRET", "token-secret")
	t.Setenv("DB_QUERY_TIMEOUT", "45s")
	t.Setenv("REPRINT_LIMIT_KITCHEN_TICKET", "3")
	t.Setenv("PRINT_BILLING_ROUTINE", "facturacion.USP_impresion_v2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, 3, cfg.Reprint.Limits[lookup.DocumentKitchenTicket])
	assert.Equal(t, "facturacion.USP_impresion_v2", cfg.Reprint.BillingRoutine)
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("AUTH_SECRET", "token-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseOperators(t *testing.T) {
	operators := parseOperators("op-1:$2a$10$hashone, op-2:$2a$10$hashtwo,,broken")
	assert.Equal(t, map[string]string{
		"op-1": "$2a$10$hashone",
		"op-2": "$2a$10$hashtwo",
	}, operators)
}
