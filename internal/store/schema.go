package store

const createProperties = `
CREATE TABLE IF NOT EXISTS properties (
    property_id SERIAL PRIMARY KEY,
    business_name VARCHAR(255) NOT NULL,
    owner_name VARCHAR(255) NOT NULL,
    address VARCHAR(255) NOT NULL,
    county VARCHAR(100) NOT NULL,
    state VARCHAR(20) DEFAULT 'FL'
)`

// AddressConstraint is the unique constraint on properties.address.
const AddressConstraint = "properties_address_key"

// addAddressConstraint checks pg_constraint first so rerunning never fails on
// an existing constraint.
const addAddressConstraint = `
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'properties_address_key'
    ) THEN
        ALTER TABLE properties ADD CONSTRAINT properties_address_key UNIQUE (address);
    END IF;
END $$`

const createTaxLiens = `
CREATE TABLE IF NOT EXISTS tax_liens (
    certificate_number VARCHAR(50) PRIMARY KEY,
    property_id INT REFERENCES properties(property_id),
    face_amount NUMERIC NOT NULL
)`

const insertProperty = `
INSERT INTO properties (business_name, owner_name, address, county, state)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (address) DO NOTHING`

const selectPropertyKeys = `SELECT property_id, address FROM properties`

const insertTaxLien = `
INSERT INTO tax_liens (certificate_number, property_id, face_amount)
VALUES ($1, $2, $3)
ON CONFLICT (certificate_number) DO NOTHING`

const countRows = `SELECT (SELECT count(*) FROM properties), (SELECT count(*) FROM tax_liens)`
