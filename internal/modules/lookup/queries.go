package lookup

// App-order table first, kiosk table second: when an order appears in both,
// the app-order row must win, so the ordering of the UNION ALL is part of
// the contract.
const orderStatusQuery = `
	SELECT
		ca.codigo_app,
		ca.estado,
		ca.cfac_id,
		ca.medio,
		ca.fecha_Pedido,
		COALESCE(m.nombres + ' ' + m.apellidos, 'No asignado') AS motorizado
	FROM Cabecera_App ca
	LEFT JOIN Motorolo m ON ca.IDMotorolo = m.IDMotorolo
	WHERE ca.codigo_app = @p1

	UNION ALL

	SELECT
		codigo_app,
		estado_maxpoint AS estado,
		cfac_id,
		'' AS medio,
		GETDATE() AS fecha_Pedido,
		'No asignado' AS motorizado
	FROM kiosko_cabecera_pedidos
	WHERE codigo_app = @p2`

// Substring match on both sides; the sequence column is monotonic, so
// ascending order yields oldest-first history.
const orderAuditQuery = `
	SELECT
		epa.codigo_app,
		epa.estado,
		epa.fecha,
		COALESCE(m.nombres + ' ' + m.apellidos, 'No asignado') AS motorizado
	FROM Estado_Pedido_App epa WITH(NOLOCK)
	LEFT JOIN Cabecera_App ca WITH(NOLOCK) ON epa.codigo_app = ca.codigo_app
	LEFT JOIN Motorolo m WITH(NOLOCK) ON ca.IDMotorolo = m.IDMotorolo
	WHERE epa.codigo_app LIKE @p1
	ORDER BY epa.IDEstadoPedido ASC`

// Prioritized union, not an arbitrary pick: app orders outrank pickup orders.
const associatedCodeQuery = `
	SELECT TOP 1 codigo_app
	FROM (
		SELECT codigo_app, 1 AS priority
		FROM Cabecera_App WITH(NOLOCK)
		WHERE cfac_id = @p1 AND codigo_app IS NOT NULL

		UNION ALL

		SELECT codigo_app, 2 AS priority
		FROM pickup_cabecera_pedidos WITH(NOLOCK)
		WHERE cfac_id = @p2 AND codigo_app IS NOT NULL
	) AS combined
	ORDER BY priority`

const kitchenTargetQuery = `
	SELECT TOP 1 IDCabeceraordenPedido
	FROM Cabecera_Factura WITH(NOLOCK)
	WHERE cfac_id = @p1`
