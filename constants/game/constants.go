package game_constants

const MaxPlayers = 4
const PiecesPerHand = 8
const TotalPilesPerRound = 8
const MaxPlayPieces = 6

// Weak hand: no piece worth more than this many points
const WeakHandThreshold = 9

const MaxRedealsPerRound = 3

const WinScoreThreshold = 50
const MaxGameRounds = 20

// Scoring constants
const ExactHitBonus = 5     // declared d > 0, captured exactly d => d + bonus
const ZeroDeclareBonus = 3  // declared 0, captured 0 => flat bonus
const UndeclaredValue = -1  // sentinel for "not declared yet"

// Bot decision delay bounds (milliseconds), so bots don't play instantly
const BotDelayMinMs = 800
const BotDelayMaxMs = 2500

// Per-player outbound notification queue capacity
const OutboundQueueCapacity = 256
