package repository

import "database/sql"

// nullString は空文字列をNULLとして書き込むための変換。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullStringRef はnilをNULLとして書き込むための変換。
func nullStringRef(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullIntRef はnilをNULLとして書き込むための変換。
func nullIntRef(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// nullFloatRef はnilをNULLとして書き込むための変換。
func nullFloatRef(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// nullStringValue はNULLを空文字列として読み取るための変換。
func nullStringValue(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
