// Package apperr tags errors with the stage that produced them.
//
// Kinds are coarse: Config, Connection, Query, IO and Internal. Commands use
// KindOf to report failures; everything else wraps with github.com/pkg/errors
// as usual and only attaches a kind at package boundaries.
//
//	db, err := sql.Open("sqlserver", dsn)
//	if err != nil {
//		return nil, apperr.Wrap(apperr.Connection, err, "failed to open connection")
//	}
package apperr
