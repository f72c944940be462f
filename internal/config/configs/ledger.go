package configs

// Ledger configures the escrow engine itself. EscrowAccount is the ledger
// identity contributed funds are held under until finalization; contributors
// approve this account before contributing. Faucet exposes the unrestricted
// mint endpoint, intended for test-token distribution only. Seed loads demo
// accounts and campaigns on startup.
type Ledger struct {
	// EscrowAccount is the account name holding funds in transit.
	EscrowAccount string `env:"ESCROW_ACCOUNT" envDefault:"escrow"`
	// Faucet enables the POST /token/mint endpoint.
	Faucet bool `env:"FAUCET" envDefault:"true"`
	// Seed inserts demo data on startup. Only honoured by main.
	Seed bool `env:"SEED" envDefault:"false"`
}
