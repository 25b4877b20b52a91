package cgd

// amountMode is how a layout stores the movement amount.
type amountMode int

const (
	// one signed column, e.g. "Montante" holding "-10,00"
	amountSigned amountMode = iota
	// unsigned "Débito" and "Crédito" columns
	amountDebitCredit
)

// layout is the column set of one CGD export.
type layout struct {
	name   string
	date   string
	label  string
	mode   amountMode
	amount string
	debit  string
	credit string
}

func (l *layout) required() []string {
	if l.mode == amountDebitCredit {
		return []string{l.date, l.label, l.debit, l.credit}
	}

	return []string{l.date, l.label, l.amount}
}

// layouts are tried in order; the card export shares "Descrição" with the
// others, so it must come first.
var layouts = []layout{
	{name: "cartão", date: "Data", label: "Descrição", mode: amountDebitCredit, debit: "Débito", credit: "Crédito"},
	{name: "extrato", date: "Data mov.", label: "Descrição", mode: amountSigned, amount: "Movimento"},
	{name: "conta", date: "Data mov.", label: "Descrição", mode: amountSigned, amount: "Montante"},
}
