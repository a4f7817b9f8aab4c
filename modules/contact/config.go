package contact

import "time"

// Config is the environment-driven configuration of the contact module.
type Config struct {
	// SubmitDelay is how long a simulated submission stays in flight.
	SubmitDelay time.Duration `env:"CONTACT_SUBMIT_DELAY" envDefault:"1200ms"`
	// SubmitBurst is how many submissions one client may make in a row.
	// Zero disables the limit.
	SubmitBurst int `env:"CONTACT_SUBMIT_BURST" envDefault:"5"`
	// SubmitRefill is how often a client regains one submission.
	SubmitRefill time.Duration `env:"CONTACT_SUBMIT_REFILL" envDefault:"10s"`
	// RulesFile optionally points at a YAML file overriding the field rules.
	RulesFile string `env:"CONTACT_RULES_FILE"`
	// DatastarScript is the URL the page loads the DataStar client from.
	DatastarScript string `env:"CONTACT_DATASTAR_SCRIPT" envDefault:"https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"`
	// Title is shown in the page header and document title.
	Title string `env:"CONTACT_TITLE" envDefault:"Get in touch"`
}
