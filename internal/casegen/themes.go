package casegen

import "github.com/myrjola/avalanchemystery/internal/models"

// Theme is a kind of incident the synthesizer can write a case about.
type Theme struct {
	Name string
	// Brief describes the incident and the cast to the model.
	Brief string
	// Goals are used when the generated case lists no educational goals.
	Goals []string
}

//nolint:gochecknoglobals,lll // prompt reference data
var themes = []Theme{
	{
		Name:  "defi_heist",
		Brief: "Create a DeFi mystery case about a suspicious drain from a major Avalanche protocol. Include suspects like a whale trader, smart contract auditor, protocol founder, and yield farmer. Focus on concepts like liquidity pools, impermanent loss, and MEV attacks.",
		Goals: []string{
			"Understand how liquidity pools work",
			"Learn about yield farming strategies",
			"Recognize MEV (Maximum Extractable Value) attacks",
			"Identify smart contract vulnerabilities",
		},
	},
	{
		Name:  "validator_conspiracy",
		Brief: "Create a mystery about a validator node going offline during a critical network upgrade. Include suspects like competing validators, the node operator, a disgruntled developer, and a regulatory figure. Focus on staking, consensus, and network security.",
		Goals: []string{
			"Learn how validator nodes secure the network",
			"Understand staking mechanisms",
			"Recognize consensus protocol importance",
			"Learn about network upgrades and hard forks",
		},
	},
	{
		Name:  "nft_forgery",
		Brief: "Create a mystery about counterfeit NFTs appearing on Avalanche marketplaces. Include suspects like the original artist, marketplace operator, a jealous collector, and a tech-savvy forger. Focus on NFT standards, metadata, and digital provenance.",
		Goals: []string{
			"Understand NFT standards and metadata",
			"Learn about digital provenance",
			"Recognize marketplace mechanics",
			"Understand IPFS and decentralized storage",
		},
	},
	{
		Name:  "bridge_exploit",
		Brief: "Create a mystery about missing funds during a cross-chain bridge operation. Include suspects like the bridge operator, a white-hat hacker, a disgruntled employee, and a competitor protocol. Focus on cross-chain security, wrapped tokens, and bridge mechanics.",
		Goals: []string{
			"Learn how cross-chain bridges work",
			"Understand wrapped tokens",
			"Recognize bridge security risks",
			"Learn about multi-signature wallets",
		},
	},
	{
		Name:  "governance_manipulation",
		Brief: "Create a mystery about suspicious voting patterns in a DAO governance proposal. Include suspects like a whale holder, the proposal author, a competing protocol, and an insider trader. Focus on governance tokens, voting mechanisms, and protocol upgrades.",
		Goals: []string{
			"Understand DAO governance mechanisms",
			"Learn about voting power and tokenomics",
			"Recognize governance attacks",
			"Understand proposal and execution processes",
		},
	},
}

// Themes returns the available themes in a stable order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeByName looks up a theme.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

func (t Theme) defaultGoals(_ models.Difficulty) []string {
	goals := make([]string, len(t.Goals))
	copy(goals, t.Goals)
	return goals
}
