// Package services implements the core mirroring engine behind the
// driving ports. The engine resolves entities bottom-up (users before
// projects before commits), checks the local store before every remote
// fetch and inserts exactly one row per previously-absent entity.
package services
