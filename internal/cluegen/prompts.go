package cluegen

import (
	"fmt"

	"github.com/myrjola/avalanchemystery/internal/models"
)

//nolint:gochecknoglobals,lll // prompt reference data
var rarityBriefs = map[models.Rarity]string{
	models.RarityCommon:    "Generate a basic clue that introduces simple Avalanche concepts like AVAX transfers, wallet addresses, or basic transactions. Make it accessible to Web2 users.",
	models.RarityUncommon:  "Generate an intermediate clue involving DeFi concepts like liquidity pools, staking, or DEX trading. Include specific protocol names like Trader Joe or Benqi.",
	models.RarityRare:      "Generate an advanced clue involving complex DeFi strategies, validator operations, cross-chain bridges, or governance mechanisms. Reference real technical details.",
	models.RarityLegendary: "Generate a critical clue that could help solve the mystery. Include advanced concepts like MEV, flash loans, governance attacks, or sophisticated exploit techniques.",
}

const rarityPromptTemplate = `%s

Requirements:
- Clue should be %s difficulty level
- Include specific AVAX ecosystem details (protocols, addresses, amounts)
- Make it feel like real forensic evidence
- Include timestamps, transaction hashes, or technical data
- Reference real Avalanche protocols when possible
- Keep educational value high for Web2 users learning Web3

Format:
Description: [The actual clue text as if found at crime scene]
AVAX Concept: [What Web3/AVAX concept this teaches]

Example:
Description: Security camera footage shows the victim accessing Trader Joe DEX at 11:42 PM, providing 50,000 AVAX and 125,000 USDC to the AVAX/USDC liquidity pool, earning 0.3%% fees on each trade.
AVAX Concept: Automated Market Makers (AMM) and liquidity provision in decentralized exchanges
`

const conceptPromptTemplate = `Generate a mystery clue that specifically teaches the Web3 concept: %q

The clue should:
- Be forensic evidence in a detective story
- Naturally incorporate the concept without being preachy
- Include specific AVAX ecosystem details
- Be educational for someone new to Web3
- Feel authentic to a crime investigation

Format:
Description: [The clue as crime scene evidence]
AVAX Concept: [Brief explanation of the concept being taught]
`

func rarityPrompt(r models.Rarity) string {
	return fmt.Sprintf(rarityPromptTemplate, rarityBriefs[r], r)
}

func conceptPrompt(concept string) string {
	return fmt.Sprintf(conceptPromptTemplate, concept)
}
