package reprint

import "fmt"

// The stored-routine names come from configuration: the backend teams have
// shipped several generations of these routines and stores are not all on
// the same one.

// payloadBatch assembles the structured print payload server-side and
// returns it as a single JSON string column.
func payloadBatch(routine string) string {
	return fmt.Sprintf(`
	DECLARE @impresiones TABLE
	(
		numeroImpresiones   INT,
		tipo                VARCHAR(50),
		impresora           VARCHAR(50),
		formatoXML          NVARCHAR(MAX),
		jsonData            NVARCHAR(MAX),
		jsonRegistros       NVARCHAR(MAX)
	);

	INSERT INTO @impresiones
	EXEC %s @p1, @p2

	SELECT
		'{"numeroImpresiones": ' + CONVERT(VARCHAR, numeroImpresiones) +
		', "tipo": "' + tipo +
		'", "idImpresora": "' + impresora +
		'", "idPlantilla": "' + REPLACE(formatoXML, '/\\/g', '') +
		'", "data": ' + jsonData +
		', "registros": ' + jsonRegistros + ' }' AS json_output
	FROM @impresiones`, routine)
}

func execTwoArgs(routine string) string { return fmt.Sprintf("EXEC %s @p1, @p2", routine) }
func execOneArg(routine string) string  { return fmt.Sprintf("EXEC %s @p1", routine) }

// Diagnostic queries, read-only.
const documentExistsQuery = `
	SELECT TOP 1 cfac_id
	FROM Cabecera_Factura WITH(NOLOCK)
	WHERE cfac_id = @p1`

const movementLogQuery = `
	SELECT TOP 1 imp_url, Canal_MovimientoVarchar1
	FROM Canal_Movimiento WITH(NOLOCK)
	WHERE Canal_MovimientoVarchar3 LIKE @p1
	AND imp_varchar1 LIKE @p2`
