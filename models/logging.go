/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package models

import "github.com/humaidq/gnprotocol/logging"

var logger = logging.Logger(logging.SourceModels)
