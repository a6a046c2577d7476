// Package sample generates plausible people for demo and test data.
// All randomness comes from crypto/rand.
package sample

import (
	"crypto/rand"
	"math/big"
)

// Age bounds for generated people, inclusive.
const (
	MinAge = 18
	MaxAge = 90
)

// Draft is a person that has not been stored yet.
type Draft struct {
	Name   string
	Age    int64
	Gender string
}

// Generator produces random drafts.
type Generator struct {
	// UnsetEvery leaves the gender unset on roughly one draft in n.
	// Zero always sets it.
	UnsetEvery int
}

// New creates a generator that leaves about one gender in ten unset.
func New() *Generator {
	return &Generator{UnsetEvery: 10}
}

// Draft generates one random person.
func (g *Generator) Draft() Draft {
	gender := pick(genders)

	var first string
	switch gender {
	case "female":
		first = pick(femaleNames)
	case "male":
		first = pick(maleNames)
	default:
		first = pick(neutralNames)
	}

	d := Draft{
		Name:   first + " " + pick(surnames),
		Age:    int64(MinAge + randIntn(MaxAge-MinAge+1)),
		Gender: gender,
	}
	if g.UnsetEvery > 0 && randIntn(g.UnsetEvery) == 0 {
		d.Gender = ""
	}
	return d
}

// Drafts generates n random people. n below zero yields none.
func (g *Generator) Drafts(n int) []Draft {
	if n <= 0 {
		return nil
	}
	out := make([]Draft, n)
	for i := range out {
		out[i] = g.Draft()
	}
	return out
}

func pick(s []string) string {
	return s[randIntn(len(s))]
}

// randIntn returns a cryptographically random int in [0, n).
func randIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failure is unrecoverable
		panic("crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}
