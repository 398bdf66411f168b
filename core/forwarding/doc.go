// Copyright 2025 The eth-fund-forwarder Authors
// This file is part of the eth-fund-forwarder library.

/*
Package forwarding implements custodial deposit forwarding with a central
hub, per-deposit satellite addresses, and hub-resolved sweep strategies.

A single operator runs one Hub and many Satellites. Deposits (native
currency or fungible tokens) accumulate passively on satellite addresses;
on command from the sweep authority, each satellite moves its entire
balance of one asset to the hub's settlement destination.

# Architecture

The system consists of four main components:

1. Hub - The singleton authority object. It holds the owner and sweep
   authority roles, the settlement destination, the operational (halt)
   flag, and the per-asset strategy registry. Every satellite and every
   strategy consults the hub on every call; nothing is cached.

2. Satellite - A passive per-deposit receiving endpoint bound to exactly
   one hub. It carries no business logic of its own: Forward resolves the
   current strategy from the hub and runs it against the satellite's own
   balances.

3. Strategy - Stateless forwarding logic resolved per asset kind. The
   registry maps asset kinds to strategy overrides and falls back to the
   hub's default strategy when no override exists. Swapping a strategy on
   the hub changes the behavior of every satellite immediately, without
   touching the satellites themselves.

4. Factory - Creates new satellites bound to the hub, optionally gated by
   an admin-maintained whitelist of approved deposit targets.

# Sweep Flow

	Operator observes a deposit on satellite S
	    → sweep authority calls S.Forward(ledger, caller, asset)
	        → S checks caller == hub.SweepAuthority()
	            → S resolves strategy from hub
	                → strategy checks hub.Operational()
	                → strategy reads hub.Destination()
	                → strategy moves S's full balance of asset
	            → hub emits one ForwardRecord
	        → record returned to the caller

Every failure aborts the whole operation with no partial effect: the
ledger's Transfer primitive couples debit and credit, so a rejected
transfer leaves the satellite's balance untouched.

The Processor wraps this flow for operator clients that sweep in batches:
it produces one receipt per request and never aborts a batch on a single
failed sweep.
*/
package forwarding
