package betting

// SmallBlindIndex returns the seat index posting the small blind, given the
// dealer's index and the number of players still seated for the hand.
// Heads-up is a special case: the dealer posts the small blind (§4.4).
func SmallBlindIndex(dealerIndex, numPlayers int) int {
	if numPlayers == 2 {
		return dealerIndex
	}
	return (dealerIndex + 1) % numPlayers
}

// BigBlindIndex returns the seat index posting the big blind.
func BigBlindIndex(dealerIndex, numPlayers int) int {
	if numPlayers == 2 {
		return (dealerIndex + 1) % numPlayers
	}
	return (dealerIndex + 2) % numPlayers
}

// PostForcedBet deducts amount from p's stack into p's currentBet, capping
// at the player's entire remaining stack and reporting whether the post
// left them all-in. This single mechanic covers small/big blinds and stud's
// bring-in (§4.4, §4.5) — the teacher's postBlinds instead errors out when a
// player can't cover the blind in full; this spec requires posting all-in
// for whatever they have instead.
func PostForcedBet(p *PlayerState, amount int64) (posted int64, isAllIn bool) {
	posted = amount
	if posted >= p.Stack {
		posted = p.Stack
		isAllIn = true
	}
	p.Stack -= posted
	p.CurrentBet += posted
	p.IsAllIn = isAllIn
	return posted, isAllIn
}
