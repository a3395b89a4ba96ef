package ir

// EngineVersion is the deck engine version stamped on recordings.
const EngineVersion = "0.1.0"
