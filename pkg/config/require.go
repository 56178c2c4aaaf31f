package config

import (
	"log"
	"strings"
)

type Requirement struct {
	Env string
	Set bool
}

func NonEmpty(env, value string) Requirement {
	return Requirement{Env: env, Set: strings.TrimSpace(value) != ""}
}

func NonEmptyBytes(env string, value []byte) Requirement {
	return Requirement{Env: env, Set: len(value) > 0}
}

func Missing(reqs ...Requirement) []string {
	var out []string
	for _, r := range reqs {
		if !r.Set {
			out = append(out, r.Env)
		}
	}
	return out
}

// MustHave aborts startup naming every required variable that is unset.
func MustHave(reqs ...Requirement) {
	if m := Missing(reqs...); len(m) > 0 {
		log.Fatalf("missing required env %s", strings.Join(m, ", "))
	}
}
