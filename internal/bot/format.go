package bot

import (
	"fmt"
	"strings"
	"time"
)

func formatProviders(list []ProviderDTO) string {
	var b strings.Builder
	b.WriteString("Провайдеры:\n")
	for _, p := range list {
		fmt.Fprintf(&b, "%d. %s\n", p.ID, p.Name)
	}
	return b.String()
}

// formatBlockLine - одна строка на блок
func formatBlockLine(bl BlockDTO) string {
	created := "-"
	if bl.CreatedAt != nil {
		created = bl.CreatedAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s | %s | #%d | создан: %s", bl.Currency, bl.Provider, bl.Number, created)
}

func formatBlocks(list []BlockDTO) string {
	var b strings.Builder
	for _, bl := range list {
		b.WriteString(formatBlockLine(bl))
		b.WriteByte('\n')
	}
	return b.String()
}
