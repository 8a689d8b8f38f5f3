package carteira

// BRL is a helper for tests to create Brazilian real money from const
func BRL(v float64) Money { return M(v, "BRL") }

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// on is a helper for tests to create a date from its standard string form.
func on(s string) Date { return MustParseDate(s) }
