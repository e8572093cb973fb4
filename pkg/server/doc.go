/*
Package server provides an NTRIP server implementation for streaming preprocessed
GNSS epoch data.

The NTRIP (Networked Transport of RTCM via Internet Protocol) server is responsible for
connecting to an NTRIP caster and publishing data produced by a DataSource — here, the
newline-delimited JSON preproc.Record batches an EpochFeed pulls from the preprocessing
engine. This package implements a complete NTRIP server following the NTRIP protocol
specification; it is agnostic to the byte payload it relays.

# Main Components

## Server

The Server type is the main component of this package. It connects to an NTRIP caster
and publishes the bytes a data source produces.

Example usage:

    // Create a new server
    server := server.NewServer("example.com", "2101", "username", "password", "MOUNTPOINT", logger)
    
    // Set the data source
    server.SetDataSource(dataSource)
    
    // Start the server
    if err := server.Start(); err != nil {
        log.Fatalf("Server error: %v", err)
    }
    defer server.Stop()

## DataSource

The DataSource interface defines the methods that a data source must implement.
A data source is responsible for providing byte-stream data to the server; EpochFeed
is the concrete implementation that serializes preproc.Record batches.

# SOLID Principles

This package follows the SOLID principles:

- Single Responsibility: Each component has a single responsibility
- Open/Closed: Components are open for extension but closed for modification
- Liskov Substitution: Interfaces can be substituted with their implementations
- Interface Segregation: Interfaces are specific to client needs
- Dependency Inversion: High-level modules depend on abstractions

# Thread Safety

Start, Stop and SetDataSource are guarded by a mutex. A Server holds one caster
connection at a time, reconnecting after it ends.

# Protocol Support

The server sends NTRIP version 2 requests (a chunked POST with an Ntrip-Version:
Ntrip/2.0 header); it has no NTRIP version 1 mode.
*/
package server
