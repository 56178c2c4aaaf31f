package service

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const codeAttempts = 5

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func invoiceNumber(now time.Time, intn func(int) int) string {
	return fmt.Sprintf("FAC-%s-%04d", now.Format("20060102"), intn(10000))
}

func transferReference(intn func(int) int) string {
	var b strings.Builder
	b.WriteString("TX-")
	for range 3 {
		b.WriteByte(letters[intn(len(letters))])
	}
	fmt.Fprintf(&b, "%06d", intn(1_000_000))
	return b.String()
}

// uniqueCode draws codes from gen until exists reports a free one.
func uniqueCode(ctx context.Context, gen func() string, exists func(context.Context, string) (bool, error)) (string, error) {
	for range codeAttempts {
		code := gen()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no se pudo generar un código único tras %d intentos: %w", codeAttempts, ErrConflict)
}
