package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"sunkissed-backend/internal/domains/design/model"
)

// CodeGenerator produces candidate share codes.
type CodeGenerator func() (string, error)

// RandomShareCode draws ShareCodeLength characters uniformly from
// ShareCodeAlphabet using crypto/rand.
func RandomShareCode() (string, error) {
	return randomCode(rand.Reader)
}

func randomCode(r io.Reader) (string, error) {
	const alphabet = model.ShareCodeAlphabet
	// 252 is the largest multiple of 36 below 256; bytes at or above it are
	// rejected so every character is equally likely.
	limit := byte(256 - 256%len(alphabet))

	code := make([]byte, 0, model.ShareCodeLength)
	buf := make([]byte, model.ShareCodeLength*2)
	for len(code) < model.ShareCodeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == model.ShareCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// persistWithUniqueCode assigns a fresh code to design and inserts it,
// regenerating when the code is already taken. It gives up after attempts
// tries with ErrShareCodeExhausted, wrapped in ErrPersistence.
func (s *DesignService) persistWithUniqueCode(ctx context.Context, design *model.Design) error {
	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrPersistence, err)
		}

		exists, err := s.repo.ExistsByShareCode(ctx, code)
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrPersistence, err)
		}
		if exists {
			continue
		}

		design.ShareCode = code
		err = s.repo.Create(ctx, design)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, model.ErrShareCodeTaken):
			// lost a race with a concurrent insert
			continue
		case errors.Is(err, model.ErrItemNotFound):
			return err
		default:
			return fmt.Errorf("%w: %v", model.ErrPersistence, err)
		}
	}
	return fmt.Errorf("%w: %w", model.ErrPersistence, model.ErrShareCodeExhausted)
}
