package mysql

// Rows are keyed by (origin, row_idx) so re-importing a file overwrites in place.
const upsertRawRowsPrefix = "INSERT INTO raw_rows\n  (origin, row_idx, payload)\nVALUES "

const upsertRawRowsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  payload     = VALUES(payload),\n" +
	"  imported_at = CURRENT_TIMESTAMP\n"

const deleteOriginSQL = `
DELETE FROM raw_rows WHERE origin = ?
`

const loadOriginSQL = `
SELECT payload
FROM raw_rows
WHERE origin = ?
ORDER BY row_idx
`
