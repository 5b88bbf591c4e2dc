package record

// Formatter turns normalized fragments into records.
type Formatter struct {
	Instruction string
}

// NewFormatter creates a Formatter. An empty instruction selects
// DefaultInstruction.
func NewFormatter(instruction string) *Formatter {
	if instruction == "" {
		instruction = DefaultInstruction
	}
	return &Formatter{Instruction: instruction}
}

// Format returns one record per fragment, in order.
func (f *Formatter) Format(fragments []string) []ChatRecord {
	records := make([]ChatRecord, 0, len(fragments))
	for _, fragment := range fragments {
		records = append(records, New(f.Instruction, fragment))
	}
	return records
}
