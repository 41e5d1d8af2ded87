// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised     = ExistsError("already initialised")
	BlockOutOfSequence     = InvalidError("block does not extend the current head")
	ConfigurationNotTable  = InvalidError("configuration must return a table")
	DatabaseIsNotSet       = ProcessError("database handle is nil")
	IncompleteCriteria     = InvalidError("criteria must contain the whole primary key")
	InvalidBlockUID        = InvalidError("invalid block uid")
	InvalidCount           = InvalidError("invalid count")
	InvalidCursor          = InvalidError("invalid cursor")
	InvalidCriteriaField   = InvalidError("invalid criteria field")
	InvalidCriteriaOp      = InvalidError("invalid criteria operator")
	InvalidDocumentKind    = InvalidError("invalid document kind")
	InvalidIndicatorKey    = InvalidError("invalid indicator key")
	InvalidLoggerChannel   = ProcessError("invalid logger channel")
	InvalidMembershipType  = InvalidError("membership type must be either IN or OUT")
	InvalidSeedLength      = InvalidError("invalid seed length")
	InvalidStructPointer   = InvalidError("invalid struct pointer")
	MissingPrimaryKey      = InvalidError("schema has no primary key")
	NotFound               = NotFoundError("not found")
	NoBlocksApplied        = NotFoundError("no blocks applied")
	NotInitialised         = ProcessError("not initialised")
	RateLimiting           = ProcessError("rate limiting")
	TransactionInUse       = ProcessError("transaction already in use")
	UnknownIdentity        = NotFoundError("identity is unknown")
	UnknownTargetIdentity  = NotFoundError("certified identity is unknown")
	WrongDatabaseVersion   = ProcessError("database version mismatch")
	ZeroDocumentsSubmitted = InvalidError("zero documents submitted")
)

// document rejections
//
// these strings are returned to submitters as-is so must remain stable
var (
	NoDocumentGiven        = RecordError("No document given")
	WrongLineCount         = RecordError("Wrong document: must have at least 2 lines")
	UnknownFieldsOrFormat  = InvalidError("Document has unknown fields or wrong line ending format")
	SignatureDoesNotMatch  = InvalidError("Signature does not match")
	NoPubkeyFound          = InvalidError("No pubkey found")
	WrongUserIDFormat      = InvalidError("Wrong user id format")
	NoBlockUID             = InvalidError("Could not extract block uid")
	NoSelfSignature        = InvalidError("No signature found for self-certification")
	NoRevocationSignature  = InvalidError("No revocation signature found")
	NoSignature            = InvalidError("No signature found")
	VersionUnknown         = InvalidError("Version unknown")
	WrongDocumentType      = InvalidError("Document type does not match")
	CurrencyRequired       = InvalidError("Currency required")
	IncorrectIssuer        = InvalidError("Incorrect issuer field")
	IncorrectMembership    = InvalidError("Incorrect Membership field: must be either IN or OUT")
	IncorrectBlock         = InvalidError("Incorrect Block field: must be a positive or zero integer, a dash and an uppercased SHA1 hash")
	IncorrectUserID        = InvalidError("UserID must match udid2 format")
	IncorrectCertTS        = InvalidError("CertTS must be a valid timestamp")
	WrongCertFormat        = InvalidError("Wrong format for certification")
	NoIssuers              = InvalidError("No issuers found")
	NoInputs               = InvalidError("No inputs found")
	NoOutputs              = InvalidError("No outputs found")
	WrongInputFormat       = InvalidError("Wrong input format")
	WrongOutputFormat      = InvalidError("Wrong output format")
	WrongSignatureCount    = InvalidError("Number of signatures must match number of issuers")
	NoBlockNumber          = InvalidError("Block number required")
	NoPoWMin               = InvalidError("PoWMin required")
	NoTime                 = InvalidError("Time required")
	NoMedianTime           = InvalidError("MedianTime required")
	NoPreviousHash         = InvalidError("PreviousHash required")
	NoPreviousIssuer       = InvalidError("PreviousIssuer required")
	UnexpectedPreviousHash = InvalidError("PreviousHash must not be given for root block")
	NoMembersCount         = InvalidError("MembersCount required")
	WrongIdentityLine      = InvalidError("Wrong identity line format")
	WrongMembershipLine    = InvalidError("Wrong membership line format")
	WrongRevocationLine    = InvalidError("Wrong revocation line format")
	WrongExcludedLine      = InvalidError("Wrong excluded line format")
	WrongCertificationLine = InvalidError("Wrong certification line format")
)

// the error interface methods
func (e GenericError) Error() string  { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }

// IsRejection - true if the error is a document rejection that can be
// reported back to the submitter
func IsRejection(e error) bool {
	return IsErrRecord(e) || IsErrInvalid(e)
}
