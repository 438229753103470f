// Package domain models flood-sensor readings and their risk classification.
//
// # Data Source
//
// Readings originate from field-deployed IoT stations (ultrasonic river
// distance sensor, hall-effect flow meter, analog rain gauge). Each station
// submits one reading per sampling interval, either as a JSON or form-encoded
// POST to the ingest endpoint or as a JSON message on the ingest Kafka topic.
//
// # Field Conventions
//
// Payload keys and units:
//
//	flow_rate      water flow through the measuring pipe, L/min
//	water_level    river level as a percentage of flood stage, 0-100
//	rain_level     rain gauge reading as a percentage of scale, 0-100
//	river_distance distance from the sensor to the water surface, cm
//
// Missing fields:
//
//	flow_rate, water_level, and rain_level default to 0 when absent; a value
//	that is present but not numeric rejects the whole payload. This asymmetry
//	matches the behavior of deployed station firmware, which omits a key when
//	a sensor has not warmed up but never sends garbage for a healthy one.
//	river_distance is purely informational and can never reject a payload:
//	absent or unparseable values become -1, and anything negative is clamped
//	to 0 (ultrasonic sensors report negative distances when out of range).
//
// # Risk Classification
//
// Risk is derived solely from water_level and rain_level with exclusive
// thresholds, HIGH evaluated first:
//
//	HIGH    water_level > 80 or rain_level > 70
//	MEDIUM  water_level > 50 or rain_level > 40
//	LOW     otherwise
//
// flow_rate and river_distance are recorded for charting but are not inputs
// to the classification. The thresholds come from the governing hydrology
// guidance for the deployment sites and must not be adjusted in code.
package domain
