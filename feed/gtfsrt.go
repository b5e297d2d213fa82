package feed

import (
	"strconv"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/plugin"
	"github.com/theoremus-urban-solutions/gpsdio-vector/utils"
	"google.golang.org/protobuf/proto"
)

// DecodeVehiclePositions decodes a GTFS-Realtime FeedMessage and returns
// one message per vehicle entity, in feed order. lat and lon are set only
// when the vehicle reports a position.
func DecodeVehiclePositions(data []byte) ([]plugin.Message, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, errors.Wrap(err, "decode GTFS-RT feed")
	}

	var headerTS int64
	if fm.Header != nil && fm.Header.Timestamp != nil {
		headerTS = int64(*fm.Header.Timestamp)
	}

	msgs := make([]plugin.Message, 0, len(fm.Entity))
	for _, e := range fm.Entity {
		if e.Vehicle == nil {
			continue
		}
		vp := e.Vehicle
		msg := plugin.Message{}

		if vp.Position != nil {
			if vp.Position.Latitude != nil {
				msg["lat"] = widen(*vp.Position.Latitude)
			}
			if vp.Position.Longitude != nil {
				msg["lon"] = widen(*vp.Position.Longitude)
			}
			if vp.Position.Bearing != nil {
				msg["course"] = widen(*vp.Position.Bearing)
			}
			if vp.Position.Speed != nil {
				msg["speed"] = widen(*vp.Position.Speed)
			}
		}

		ts := headerTS
		if vp.Timestamp != nil {
			ts = int64(*vp.Timestamp)
		}
		if ts > 0 {
			msg["timestamp"] = utils.Iso8601FromUnixSeconds(ts)
		}

		if vp.Vehicle != nil && vp.Vehicle.Id != nil {
			msg["vehicle_id"] = *vp.Vehicle.Id
		}
		if vp.Trip != nil {
			if vp.Trip.TripId != nil {
				msg["trip_id"] = *vp.Trip.TripId
			}
			if vp.Trip.RouteId != nil {
				msg["route_id"] = *vp.Trip.RouteId
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// widen converts a float32 to the float64 with the same shortest decimal
// form, so 40.7128 stays 40.7128 instead of 40.71279907226562.
func widen(f float32) float64 {
	w, _ := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	return w
}
