package repository

// postgres error code for unique constraint violation
const pgErrUniqueViolationCode = "23505"

// constraint guarding claim code uniqueness, see migrations
const claimCodeConstraintName = "orders_claim_code_key"
