package share

// VERSION Nirman dashboard service version
const VERSION = "0.3.1"

// PRVERSION PR commit, replaced at build time
const PRVERSION = "DEV"

// BUILDNAME the name of the artifact
const BUILDNAME = "nirman"
