/*
Package cyclone is a pure Go implementation of symmetric-key somewhat-homomorphic
encryption (SHE) over cyclotomic polynomial rings, the building block of
ring-LWE-based lattice cryptography. It provides exact arithmetic over
Z[x]/(Phi_m(x), q) for arbitrary cyclotomic indices m, together with encryption,
homomorphic addition and multiplication, gadget-based key switching, modulus
switching and ring switching (tunneling) between plaintext rings.
*/
package cyclone
