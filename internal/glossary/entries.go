package glossary

import "github.com/myrjola/avalanchemystery/internal/models"

//nolint:gochecknoglobals,lll // reference data
var defaultEntries = []Entry{
	{Key: "smart_contract", Link: models.EducationalLink{
		Term:             "Smart Contract",
		URL:              "https://docs.avax.network/learn/avalanche/smart-contracts",
		BriefExplanation: "Self-executing contracts with terms written in code. Like a digital vending machine - you put money in, get the product out automatically.",
	}},
	{Key: "subnet", Link: models.EducationalLink{
		Term:             "Subnet",
		URL:              "https://docs.avax.network/learn/avalanche/subnets",
		BriefExplanation: "A custom blockchain network on Avalanche. Think of it as creating your own specialized highway for specific traffic.",
	}},
	{Key: "liquidity_pool", Link: models.EducationalLink{
		Term:                "Liquidity Pool",
		URL:                 "https://traderjoe.xyz/learn/what-is-a-liquidity-pool",
		BriefExplanation:    "A shared pot of money that enables trading. Like a community fund where people contribute and earn fees from trades.",
		DetailedExplanation: `Liquidity pools are smart contracts holding pairs of tokens (like AVAX/USDC) that enable decentralized trading. Users deposit tokens to earn fees from trades. The pool uses an automated market maker (AMM) formula to set prices based on the ratio of tokens. Large trades can cause "slippage", price changes during the trade.`,
	}},
	{Key: "yield_farming", Link: models.EducationalLink{
		Term:             "Yield Farming",
		URL:              "https://docs.avax.network/dapps/yield-farming",
		BriefExplanation: "Earning rewards by lending your crypto. Similar to earning interest in a savings account, but with higher potential returns.",
	}},
	{Key: "defi", Link: models.EducationalLink{
		Term:             "DeFi (Decentralized Finance)",
		URL:              "https://docs.avax.network/learn/avalanche/avalanche-consensus",
		BriefExplanation: "Financial services without banks. Like having a bank that runs automatically without human managers.",
	}},
	{Key: "validator", Link: models.EducationalLink{
		Term:             "Validator",
		URL:              "https://docs.avax.network/nodes/validate/what-is-staking",
		BriefExplanation: "Computers that secure the network and verify transactions. Like digital security guards that get paid for their work.",
	}},
	{Key: "bridge", Link: models.EducationalLink{
		Term:             "Bridge",
		URL:              "https://docs.avax.network/cross-chain",
		BriefExplanation: "Connects different blockchains. Like a bridge that lets you move assets between different digital countries.",
	}},
	{Key: "staking", Link: models.EducationalLink{
		Term:             "Staking",
		URL:              "https://docs.avax.network/nodes/validate/what-is-staking",
		BriefExplanation: "Locking up your crypto to help secure the network and earn rewards. Like putting money in a CD that helps run the bank.",
	}},
	{Key: "gas_fees", Link: models.EducationalLink{
		Term:             "Gas Fees",
		URL:              "https://docs.avax.network/quickstart/transaction-fees",
		BriefExplanation: "Small fees paid to process transactions. Like paying a small toll to use a highway.",
	}},
	{Key: "avax_token", Link: models.EducationalLink{
		Term:             "AVAX Token",
		URL:              "https://docs.avax.network/learn/avalanche/avax",
		BriefExplanation: "The native currency of Avalanche network. Like the dollar is to America, AVAX is to Avalanche.",
	}},
	{Key: "nft", Link: models.EducationalLink{
		Term:             "NFT (Non-Fungible Token)",
		URL:              "https://docs.avax.network/dapps/nfts",
		BriefExplanation: "Unique digital certificates of ownership. Like a digital certificate that proves you own an original artwork.",
	}},
	{Key: "consensus", Link: models.EducationalLink{
		Term:             "Consensus Mechanism",
		URL:              "https://docs.avax.network/learn/avalanche/avalanche-consensus",
		BriefExplanation: "How the network agrees on what transactions are valid. Like a voting system where computers decide what's legitimate.",
	}},
	{Key: "governance_attack", Link: models.EducationalLink{
		Term:                "Governance Attack",
		URL:                 "https://docs.avax.network/learn/avalanche/governance",
		BriefExplanation:    "When someone manipulates voting to control a protocol",
		DetailedExplanation: "A governance attack occurs when an attacker accumulates enough governance tokens to propose and pass malicious proposals. In DeFi protocols, governance tokens give holders voting rights on protocol changes. If someone gets >51% of tokens (or enough to reach quorum), they can vote to drain treasuries, change fee structures, or modify smart contracts for personal benefit.",
	}},
	{Key: "flash_loan", Link: models.EducationalLink{
		Term:                "Flash Loan",
		URL:                 "https://docs.avax.network/dapps/smart-contracts/flash-loans",
		BriefExplanation:    "Borrowing crypto that must be repaid in the same transaction",
		DetailedExplanation: "Flash loans allow borrowing large amounts of cryptocurrency without collateral, but the loan must be repaid within the same blockchain transaction. If not repaid, the entire transaction fails. Attackers use flash loans to manipulate prices, exploit arbitrage, or temporarily gain voting power in governance attacks.",
	}},
	{Key: "validator_staking", Link: models.EducationalLink{
		Term:                "Validator Staking",
		URL:                 "https://docs.avax.network/nodes/validate/what-is-staking",
		BriefExplanation:    "Locking AVAX to help secure the network and earn rewards",
		DetailedExplanation: `Validators stake AVAX tokens to participate in network consensus. They validate transactions and create new blocks. Validators earn rewards for honest behavior but can be "slashed" (lose staked tokens) for malicious actions. Minimum stake is 2,000 AVAX. Users can delegate to validators if they have less than 2,000 AVAX.`,
	}},
	{Key: "smart_contract_vulnerability", Link: models.EducationalLink{
		Term:                "Smart Contract Vulnerability",
		URL:                 "https://docs.avax.network/dapps/smart-contracts/security",
		BriefExplanation:    "Bugs in code that attackers can exploit",
		DetailedExplanation: "Smart contracts are immutable code, so bugs become permanent vulnerabilities. Common issues include reentrancy attacks (calling functions repeatedly), integer overflow (numbers becoming too large), and access control bugs (wrong permissions). Audits help find these issues before deployment.",
	}},
	{Key: "cross_chain_bridge", Link: models.EducationalLink{
		Term:                "Cross-Chain Bridge",
		URL:                 "https://docs.avax.network/cross-chain",
		BriefExplanation:    "Technology that connects different blockchains",
		DetailedExplanation: "Bridges allow moving assets between blockchains (like Ethereum to Avalanche). They work by locking tokens on one chain and minting equivalent tokens on another. Bridges are high-value targets for hackers because they hold large amounts of locked assets. Security depends on the bridge design and validators.",
	}},
	{Key: "mev_attack", Link: models.EducationalLink{
		Term:                "MEV (Maximum Extractable Value)",
		URL:                 "https://docs.avax.network/dapps/smart-contracts/mev",
		BriefExplanation:    "Profit extracted by reordering transactions",
		DetailedExplanation: "MEV involves validators or bots reordering, including, or censoring transactions to extract profit. Common MEV strategies include front-running (placing transactions before large trades to profit from price changes) and sandwich attacks (placing transactions before and after a target transaction). This can harm regular users through worse prices.",
	}},
}
