package ports

// Reporter writes one formatted diagnostic line per call.
//
// Implementations prefix every line with "ooqd: " and terminate it with a
// newline.
type Reporter interface {
	// Report writes the formatted message.
	Report(format string, args ...interface{})

	// ReportErr writes the formatted message followed by ": " and the text of
	// the underlying system error of err.
	ReportErr(err error, format string, args ...interface{})
}
