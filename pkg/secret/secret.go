package secret

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultLength = 20
	DefaultCost   = bcrypt.DefaultCost
	Charset       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#%*+-=_"

	// MaxHashedLength is the longest input bcrypt accepts.
	MaxHashedLength = 72
)

var (
	ErrInvalidLength  = errors.New("invalid secret length")
	ErrEmptyCharset   = errors.New("empty charset")
	ErrHashFailed     = errors.New("hashing secret failed")
	ErrGenerateFailed = errors.New("generating secret failed")
)

// Secret is a generated credential. Value is what gets written out: the bcrypt hash
// of Plain when hashing is on, Plain otherwise.
type Secret struct {
	Plain  string
	Value  string
	Hashed bool
}

type Generator struct {
	Length  int
	Charset string
	Hash    bool
	Cost    int
	Rand    io.Reader
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		Length:  DefaultLength,
		Charset: Charset,
		Hash:    true,
		Cost:    DefaultCost,
		Rand:    rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type Option func(*Generator)

func WithLength(n int) Option {
	return func(g *Generator) {
		g.Length = n
	}
}

func WithHash(hash bool) Option {
	return func(g *Generator) {
		g.Hash = hash
	}
}

func WithCost(cost int) Option {
	return func(g *Generator) {
		g.Cost = cost
	}
}

func WithRand(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.Rand = r
		}
	}
}

// Generate draws a new secret, each character uniformly from the charset.
func (g *Generator) Generate() (Secret, error) {
	if g.Length <= 0 {
		return Secret{}, fmt.Errorf("%w: %d", ErrInvalidLength, g.Length)
	}
	if g.Hash && g.Length > MaxHashedLength {
		return Secret{}, fmt.Errorf("%w: %d (bcrypt accepts at most %d)", ErrInvalidLength, g.Length, MaxHashedLength)
	}
	if g.Charset == "" {
		return Secret{}, ErrEmptyCharset
	}

	plain, err := randomString(g.Rand, g.Charset, g.Length)
	if err != nil {
		return Secret{}, fmt.Errorf("%w: %w", ErrGenerateFailed, err)
	}

	if !g.Hash {
		return Secret{Plain: plain, Value: plain}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), g.Cost)
	if err != nil {
		return Secret{}, fmt.Errorf("%w: %w", ErrHashFailed, err)
	}

	return Secret{Plain: plain, Value: string(hash), Hashed: true}, nil
}

// Verify reports whether s.Value matches s.Plain.
func (s Secret) Verify() bool {
	if !s.Hashed {
		return s.Value == s.Plain
	}
	return bcrypt.CompareHashAndPassword([]byte(s.Value), []byte(s.Plain)) == nil
}

func randomString(r io.Reader, charset string, n int) (string, error) {
	max := big.NewInt(int64(len(charset)))
	out := make([]byte, n)

	for i := range out {
		idx, err := rand.Int(r, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[idx.Int64()]
	}

	return string(out), nil
}
